// Package tags maps element names to their tag kind, and tracks the
// external (tag name, variant) -> class mapping contributed by the class
// registry collaborator.
package tags

// Kind is the closed set of element roles the parser dispatches on.
type Kind int

const (
	Invalid Kind = iota
	Boolean
	Integer
	Float
	String
	Point
	Vector
	Spectrum
	RGB
	Color
	Transform
	Translate
	Matrix
	Rotate
	Scale
	LookAt
	Object
	NamedReference
	Include
	Alias
	Default
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Point:
		return "point"
	case Vector:
		return "vector"
	case Spectrum:
		return "spectrum"
	case RGB:
		return "rgb"
	case Color:
		return "color"
	case Transform:
		return "transform"
	case Translate:
		return "translate"
	case Matrix:
		return "matrix"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	case LookAt:
		return "lookat"
	case Object:
		return "object"
	case NamedReference:
		return "ref"
	case Include:
		return "include"
	case Alias:
		return "alias"
	case Default:
		return "default"
	default:
		return "invalid"
	}
}

// IsTransformOp reports whether k is one of the operations legal only as a
// direct child of a Transform element.
func (k Kind) IsTransformOp() bool {
	switch k {
	case Translate, Rotate, Scale, LookAt, Matrix:
		return true
	default:
		return false
	}
}

var primitiveByName = map[string]Kind{
	"boolean":   Boolean,
	"integer":   Integer,
	"float":     Float,
	"string":    String,
	"point":     Point,
	"vector":    Vector,
	"spectrum":  Spectrum,
	"rgb":       RGB,
	"color":     Color,
	"transform": Transform,
	"translate": Translate,
	"matrix":    Matrix,
	"rotate":    Rotate,
	"scale":     Scale,
	"lookat":    LookAt,
	"ref":       NamedReference,
	"include":   Include,
	"alias":     Alias,
	"default":   Default,
}

// Primitive looks up the fixed primitive tag kind for name, if any. Element
// names with no primitive kind are resolved against the class registry
// (see Registry.Resolve) and, failing that, are Invalid.
func Primitive(name string) (Kind, bool) {
	k, ok := primitiveByName[name]
	return k, ok
}
