package descriptor

import (
	"sync"

	"github.com/InsigMath/mitsuba2/internal/tags"
)

// Object is the opaque result of instantiating a descriptor. The loader
// core never looks inside it; only the external factory and expansion
// collaborators (§6) do.
type Object any

// Descriptor is the deferred representation of one object after Pass 1:
// its class handle, property bag, and enough provenance to report errors
// against the document it came from. Descriptors are immutable after Pass
// 1 except for the Instance/Err slots, which are written once under Lock.
type Descriptor struct {
	ID         string
	ClassName  string // the tag name, e.g. "bsdf", "emitter" — used in error messages
	PluginType string // the resolved "type" attribute, e.g. "diffuse"
	Class      tags.Class
	Properties *Properties

	// Alias, if non-empty, means this descriptor has no properties of its
	// own and forwards to the descriptor named Alias instead.
	Alias string

	SourceID     string
	SourceOffset int

	mu       sync.Mutex
	instance Object
	built    bool
	err      error
}

// NewDescriptor returns a descriptor with an empty property bag.
func NewDescriptor(id, className string) *Descriptor {
	return &Descriptor{ID: id, ClassName: className, Properties: NewProperties()}
}

// Lock acquires the descriptor's build mutex. Pass 2 holds it across the
// lookup-or-build region so concurrent instantiations of the same
// descriptor observe a single build.
func (d *Descriptor) Lock() { d.mu.Lock() }

// Unlock releases the build mutex.
func (d *Descriptor) Unlock() { d.mu.Unlock() }

// Built reports whether Store has already been called, and returns the
// stored result. Callers must hold Lock.
func (d *Descriptor) Built() (Object, error, bool) {
	return d.instance, d.err, d.built
}

// Store records the outcome of building this descriptor exactly once.
// Callers must hold Lock.
func (d *Descriptor) Store(obj Object, err error) {
	d.instance = obj
	d.err = err
	d.built = true
}
