package parse

import (
	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/doctree"
	"github.com/InsigMath/mitsuba2/internal/scalarval"
	"github.com/InsigMath/mitsuba2/internal/tags"
	"github.com/InsigMath/mitsuba2/internal/transform"
)

// parseTransformElem handles the Transform row: initializes the
// accumulator to identity, lets each child operation left-multiply it,
// then stores the result under name (§4.5).
func (c *Context) parseTransformElem(
	doc *doctree.Document,
	node *doctree.Node,
	attrs map[string]string,
	parentProps *descriptor.Properties,
	params *Params,
	depth int,
	withinEmitter bool,
) (name, id string, err error) {
	if err := checkAttrs("transform", node, "name"); err != nil {
		return "", "", err
	}
	n, err := requireAttr(attrs, "transform", "name")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("name", n); err != nil {
		return "", "", err
	}

	acc := transform.Identity()
	for _, child := range node.Children {
		if _, _, err := c.parseNode(doc, child, tags.Transform, nil, params, nil, depth, withinEmitter, &acc); err != nil {
			return "", "", err
		}
	}

	if parentProps != nil {
		parentProps.Set(n, descriptor.TransformValue(acc))
	}
	return n, "", nil
}

// parseTransformOp handles Translate/Rotate/Scale/LookAt/Matrix, each
// left-multiplying *acc with the operation's own matrix (§4.5).
func (c *Context) parseTransformOp(kind tags.Kind, node *doctree.Node, attrs map[string]string, acc *transform.Matrix4) (name, id string, err error) {
	tagName := node.Name
	var m transform.Matrix4

	switch kind {
	case tags.Translate, tags.Scale:
		if err := checkAttrs(tagName, node, "value", "x", "y", "z"); err != nil {
			return "", "", err
		}
		def := float32(0)
		if kind == tags.Scale {
			def = 1
		}
		x, y, z, err := transform.ResolveAxis(buildAxisAttrs(attrs), def, false)
		if err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid <%s>", tagName)
		}
		if kind == tags.Translate {
			m = transform.Translate(x, y, z)
		} else {
			m = transform.Scale(x, y, z)
		}

	case tags.Rotate:
		if err := checkAttrs(tagName, node, "angle", "value", "x", "y", "z"); err != nil {
			return "", "", err
		}
		angleStr, err := requireAttr(attrs, "rotate", "angle")
		if err != nil {
			return "", "", err
		}
		angle, err := scalarval.Float(angleStr)
		if err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid <rotate> angle")
		}
		x, y, z, err := transform.ResolveAxis(buildAxisAttrs(attrs), 0, true)
		if err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid <rotate>")
		}
		m = transform.Rotate(float32(angle), x, y, z)

	case tags.LookAt:
		if err := checkAttrs(tagName, node, "origin", "target", "up"); err != nil {
			return "", "", err
		}
		origin, err := parseVec3Exact(attrs, "origin")
		if err != nil {
			return "", "", err
		}
		target, err := parseVec3Exact(attrs, "target")
		if err != nil {
			return "", "", err
		}
		up, err := parseVec3Exact(attrs, "up")
		if err != nil {
			return "", "", err
		}
		m = transform.LookAt(origin, target, up)
		if m.HasNaN() {
			return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrSemantic, "invalid lookat transformation")
		}

	case tags.Matrix:
		if err := checkAttrs(tagName, node, "value"); err != nil {
			return "", "", err
		}
		raw, err := requireAttr(attrs, "matrix", "value")
		if err != nil {
			return "", "", err
		}
		fields := scalarval.Fields(raw)
		if len(fields) != 16 {
			return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrSemantic, "<matrix> requires exactly 16 values, got %d", len(fields))
		}
		var arr [16]float32
		for i, f := range fields {
			v, err := scalarval.Float(f)
			if err != nil {
				return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid <matrix> value")
			}
			arr[i] = float32(v)
		}
		m = transform.MatrixFromValues(arr)
	}

	*acc = m.Mul(*acc)
	return "", "", nil
}

func parseVec3Exact(attrs map[string]string, attrName string) ([3]float32, error) {
	raw, err := requireAttr(attrs, "lookat", attrName)
	if err != nil {
		return [3]float32{}, err
	}
	fields := scalarval.Fields(raw)
	if len(fields) != 3 {
		return [3]float32{}, mtsxmlerrors.New(mtsxmlerrors.ErrSemantic, "%q must have exactly 3 components, got %d", attrName, len(fields))
	}
	var out [3]float32
	for i, f := range fields {
		v, err := scalarval.Float(f)
		if err != nil {
			return [3]float32{}, mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid %q", attrName)
		}
		out[i] = float32(v)
	}
	return out, nil
}
