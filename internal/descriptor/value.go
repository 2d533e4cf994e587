// Package descriptor holds the Pass 1 output: a table of deferred object
// descriptors keyed by id, each carrying a typed, order-preserving property
// bag and provenance for diagnostics.
package descriptor

import "github.com/InsigMath/mitsuba2/internal/transform"

// ValueKind identifies which field of Value is populated.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindInt
	KindFloat
	KindString
	KindVector
	KindPoint
	KindTransform
	KindRef
	KindColor
	KindObject
)

// Vec3 is a plain 3-component vector or point, shared by Vector and Point
// property values.
type Vec3 struct {
	X, Y, Z float64
}

// Value is a tagged union over the property value kinds the parser can
// produce. Nested objects (including lowered color/spectrum shorthand) are
// always represented as KindRef, pointing at a descriptor id instantiated
// during Pass 2 — never inlined.
type Value struct {
	Kind ValueKind

	Bool   bool
	Int    int64
	Float  float64
	String string
	Vec3   Vec3

	Transform transform.Matrix4

	// Ref is the referenced descriptor id, used for both explicit <ref>
	// named references and nested <object> children and lowered colors.
	Ref string

	// Object holds a resolved, possibly-expanded object once Pass 2 has
	// replaced a KindRef entry with its instantiation result.
	Object Object
}

func BoolValue(b bool) Value          { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value          { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value      { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value      { return Value{Kind: KindString, String: s} }
func VectorValue(v Vec3) Value        { return Value{Kind: KindVector, Vec3: v} }
func PointValue(v Vec3) Value         { return Value{Kind: KindPoint, Vec3: v} }
func TransformValue(m transform.Matrix4) Value {
	return Value{Kind: KindTransform, Transform: m}
}
func RefValue(id string) Value { return Value{Kind: KindRef, Ref: id} }
func ColorValue(v Vec3) Value  { return Value{Kind: KindColor, Vec3: v} }
func ObjectValueOf(o Object) Value { return Value{Kind: KindObject, Object: o} }
