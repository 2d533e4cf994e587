package mtsxml

import (
	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/instantiate"
	"github.com/InsigMath/mitsuba2/internal/parse"
	"github.com/InsigMath/mitsuba2/internal/tags"
)

// Object is the opaque result of instantiating a descriptor; the loader
// never looks inside it (§6).
type Object = descriptor.Object

// Descriptor is the deferred representation of one object a PluginManager
// is asked to build: its class handle, resolved property bag, and
// provenance. See internal/descriptor.Descriptor for field documentation.
type Descriptor = descriptor.Descriptor

// Properties is the ordered, per-entry-tracked property bag a PluginManager
// reads via Get; any name never read is reported as an unqueried property.
type Properties = descriptor.Properties

// Value is a tagged union over the property kinds a PluginManager may
// encounter (scalars, vectors, transforms, and resolved nested objects).
type Value = descriptor.Value

// ValueKind identifies which field of a Value is populated.
type ValueKind = descriptor.ValueKind

// Vec3 is a plain 3-component vector or point.
type Vec3 = descriptor.Vec3

const (
	KindBool      = descriptor.KindBool
	KindInt       = descriptor.KindInt
	KindFloat     = descriptor.KindFloat
	KindString    = descriptor.KindString
	KindVector    = descriptor.KindVector
	KindPoint     = descriptor.KindPoint
	KindTransform = descriptor.KindTransform
	KindRef       = descriptor.KindRef
	KindColor     = descriptor.KindColor
	KindObject    = descriptor.KindObject
)

// ClassRegistry maps (tag name, variant) to a class handle. Register it
// before loading; the loader only ever reads from it.
type ClassRegistry = tags.Registry

// NewClassRegistry returns an empty ClassRegistry, ready for Register.
func NewClassRegistry() *ClassRegistry {
	return tags.NewRegistry()
}

// PluginManager constructs a concrete Object from a descriptor's class and
// fully-resolved property bag (PluginManager.create in §6). It is a
// mandatory collaborator: there is no sensible default.
type PluginManager = instantiate.Factory

// FileResolver turns an <include filename="..."/> path into file content
// (FileResolver.resolve in §6).
type FileResolver = parse.FileResolver

// OSResolver is the default FileResolver, resolving include paths relative
// to a base directory on the local filesystem.
type OSResolver = parse.OSResolver

// Expandable is implemented by objects that may reveal, once instantiated,
// that they really stand for a list of replacement objects (Object.expand
// in §6). Objects that never expand need not implement it.
type Expandable interface {
	Expand() ([]Object, error)
}

// methodExpander adapts Expandable to instantiate.Expander: an object that
// does not implement Expandable simply does not expand.
type methodExpander struct{}

func (methodExpander) Expand(obj descriptor.Object) ([]descriptor.Object, error) {
	e, ok := obj.(Expandable)
	if !ok {
		return []descriptor.Object{obj}, nil
	}
	return e.Expand()
}
