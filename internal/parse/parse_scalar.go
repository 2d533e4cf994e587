package parse

import (
	"strings"

	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/doctree"
	"github.com/InsigMath/mitsuba2/internal/scalarval"
	"github.com/InsigMath/mitsuba2/internal/tags"
	"github.com/InsigMath/mitsuba2/internal/transform"
)

// parseScalar handles Boolean/Integer/Float/String: strict scalar parse
// then bind under name (§4.7).
func (c *Context) parseScalar(kind tags.Kind, node *doctree.Node, attrs map[string]string, parentProps *descriptor.Properties) (name, id string, err error) {
	tagName := node.Name
	if err := checkAttrs(tagName, node, "name", "value"); err != nil {
		return "", "", err
	}
	n, err := requireAttr(attrs, tagName, "name")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("name", n); err != nil {
		return "", "", err
	}
	raw, err := requireAttr(attrs, tagName, "value")
	if err != nil {
		return "", "", err
	}

	var value descriptor.Value
	switch kind {
	case tags.Boolean:
		b, err := scalarval.Bool(raw)
		if err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid boolean for %q", n)
		}
		value = descriptor.BoolValue(b)
	case tags.Integer:
		i, err := scalarval.Int(raw)
		if err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid integer for %q", n)
		}
		value = descriptor.IntValue(i)
	case tags.Float:
		f, err := scalarval.Float(raw)
		if err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid float for %q", n)
		}
		value = descriptor.FloatValue(f)
	case tags.String:
		value = descriptor.StringValue(raw)
	}

	if parentProps != nil {
		parentProps.Set(n, value)
	}
	return n, "", nil
}

// parseVectorPoint handles Vector/Point: either a "value" convenience
// attribute or explicit x/y/z, each defaulting to 0, never mixed.
func (c *Context) parseVectorPoint(kind tags.Kind, node *doctree.Node, attrs map[string]string, parentProps *descriptor.Properties) (name, id string, err error) {
	tagName := node.Name
	if err := checkAttrs(tagName, node, "name", "value", "x", "y", "z"); err != nil {
		return "", "", err
	}
	n, err := requireAttr(attrs, tagName, "name")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("name", n); err != nil {
		return "", "", err
	}

	aa := buildAxisAttrs(attrs)
	x, y, z, err := transform.ResolveAxis(aa, 0, false)
	if err != nil {
		return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid <%s> for %q", tagName, n)
	}

	vec := descriptor.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}
	var value descriptor.Value
	if kind == tags.Point {
		value = descriptor.PointValue(vec)
	} else {
		value = descriptor.VectorValue(vec)
	}
	if parentProps != nil {
		parentProps.Set(n, value)
	}
	return n, "", nil
}

// parseColorLike handles Color/RGB/Spectrum by delegating to colorlower
// (§4.6); Color binds a raw value, RGB/Spectrum bind a reference to a
// synthesized spectrum descriptor.
func (c *Context) parseColorLike(kind tags.Kind, node *doctree.Node, attrs map[string]string, parentProps *descriptor.Properties, withinEmitter bool) (name, id string, err error) {
	tagName := node.Name
	if err := checkAttrs(tagName, node, "name", "value"); err != nil {
		return "", "", err
	}
	n, err := requireAttr(attrs, tagName, "name")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("name", n); err != nil {
		return "", "", err
	}
	raw, err := requireAttr(attrs, tagName, "value")
	if err != nil {
		return "", "", err
	}

	var value descriptor.Value
	var lowerErr error
	switch kind {
	case tags.Color:
		value, lowerErr = c.lowerer.Color(raw)
	case tags.RGB:
		value, lowerErr = c.lowerer.RGB(c.Table, raw, withinEmitter)
	case tags.Spectrum:
		if strings.Contains(raw, ":") {
			value, lowerErr = c.lowerer.SpectrumPairs(c.Table, raw, withinEmitter)
		} else {
			value, lowerErr = c.lowerer.SpectrumScalar(c.Table, raw, withinEmitter)
		}
	}
	if lowerErr != nil {
		return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSemantic, lowerErr, "invalid <%s> for %q", tagName, n)
	}

	if parentProps != nil {
		parentProps.Set(n, value)
	}
	return n, "", nil
}

func buildAxisAttrs(attrs map[string]string) transform.AxisAttrs {
	var aa transform.AxisAttrs
	if v, ok := attrs["value"]; ok {
		aa.Value = &v
	}
	if v, ok := attrs["x"]; ok {
		aa.X = &v
		aa.HasPartial = true
	}
	if v, ok := attrs["y"]; ok {
		aa.Y = &v
		aa.HasPartial = true
	}
	if v, ok := attrs["z"]; ok {
		aa.Z = &v
		aa.HasPartial = true
	}
	return aa
}
