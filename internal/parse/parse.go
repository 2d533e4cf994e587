package parse

import (
	"fmt"

	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/doctree"
	"github.com/InsigMath/mitsuba2/internal/tags"
	"github.com/InsigMath/mitsuba2/internal/transform"
)

// parseNode is the single recursive procedure described in §4.7:
// parse(node, parent_tag, parent_props, params, arg_counter, depth,
// within_emitter) -> (name, id). acc is non-nil only while node is a
// direct child of a <transform> element, in which case node is expected
// to be a transform operation that left-multiplies *acc.
func (c *Context) parseNode(
	doc *doctree.Document,
	node *doctree.Node,
	parentKind tags.Kind,
	parentProps *descriptor.Properties,
	params *Params,
	argCounter *int,
	depth int,
	withinEmitter bool,
	acc *transform.Matrix4,
) (name, id string, err error) {
	defer func() {
		if err != nil {
			line, col := c.locate(doc, node.Offset)
			err = mtsxmlerrors.Locate(err, doc.SourceID, line, col)
		}
	}()

	attrs := c.substituteAttrs(node, params)
	kind := c.resolveKind(node, attrs)

	if kind == tags.Invalid {
		return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrUnknownTag, "unknown element <%s>", node.Name)
	}
	if err := checkStructure(kind, parentKind); err != nil {
		return "", "", err
	}

	switch kind {
	case tags.Object:
		return c.parseObject(doc, node, attrs, parentProps, params, argCounter, depth, withinEmitter)
	case tags.NamedReference:
		return c.parseNamedReference(node, attrs, params, parentProps, argCounter)
	case tags.Alias:
		return c.parseAlias(doc, node, attrs)
	case tags.Default:
		return c.parseDefault(node, attrs, params)
	case tags.Include:
		return c.parseInclude(node, attrs, parentKind, parentProps, params, argCounter, depth, withinEmitter)
	case tags.Boolean, tags.Integer, tags.Float, tags.String:
		return c.parseScalar(kind, node, attrs, parentProps)
	case tags.Vector, tags.Point:
		return c.parseVectorPoint(kind, node, attrs, parentProps)
	case tags.Color, tags.RGB, tags.Spectrum:
		return c.parseColorLike(kind, node, attrs, parentProps, withinEmitter)
	case tags.Transform:
		return c.parseTransformElem(doc, node, attrs, parentProps, params, depth, withinEmitter)
	case tags.Translate, tags.Rotate, tags.Scale, tags.LookAt, tags.Matrix:
		return c.parseTransformOp(kind, node, attrs, acc)
	default:
		return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrUnknownTag, "unhandled tag kind for <%s>", node.Name)
	}
}

// parseObject handles the Object row of §4.7's tag table: it synthesizes
// or validates name/id, records a descriptor in the table, recurses into
// its children with a fresh property bag, and binds itself as a named
// reference into its parent's properties.
func (c *Context) parseObject(
	doc *doctree.Document,
	node *doctree.Node,
	attrs map[string]string,
	parentProps *descriptor.Properties,
	params *Params,
	argCounter *int,
	depth int,
	withinEmitter bool,
) (name, id string, err error) {
	className := node.Name
	isScene := className == "scene"

	allowed := []string{"type", "id", "name"}
	if node.Parent == nil {
		// The root element of a document carries its version attribute.
		allowed = append(allowed, "version")
	}
	if err := checkAttrs(className, node, allowed...); err != nil {
		return "", "", err
	}

	typeAttr := attrs["type"]
	if isScene {
		typeAttr = "scene"
	}

	if rawName, ok := node.Attr("name"); ok {
		name = params.Substitute(rawName)
		if err := validateUserName("name", name); err != nil {
			return "", "", err
		}
	} else {
		name = syntheticArgName(argCounter)
	}

	if rawID, ok := node.Attr("id"); ok {
		id = params.Substitute(rawID)
		if err := validateUserName("id", id); err != nil {
			return "", "", err
		}
	} else {
		id = c.nextID()
	}

	d := descriptor.NewDescriptor(id, className)
	d.PluginType = typeAttr
	if class, ok := c.Registry.Resolve(className, c.Variant); ok {
		d.Class = class
	}
	d.SourceID = doc.SourceID
	d.SourceOffset = node.Offset

	withinEmitter = withinEmitter || className == "emitter"
	nestedArgCounter := 0
	for _, child := range node.Children {
		if _, _, err := c.parseNode(doc, child, tags.Object, d.Properties, params, &nestedArgCounter, depth, withinEmitter, nil); err != nil {
			return "", "", err
		}
	}

	if existing, err := c.Table.Insert(d); err != nil {
		return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrDuplicateID,
			"duplicate id %q (first declared in %q at byte offset %d)", id, existing.SourceID, existing.SourceOffset)
	}

	if parentProps != nil {
		parentProps.Set(name, descriptor.RefValue(id))
	}
	return name, id, nil
}

// parseNamedReference handles the NamedReference (<ref>) row.
func (c *Context) parseNamedReference(
	node *doctree.Node,
	attrs map[string]string,
	params *Params,
	parentProps *descriptor.Properties,
	argCounter *int,
) (name, id string, err error) {
	if err := checkAttrs("ref", node, "name", "id"); err != nil {
		return "", "", err
	}

	id, err = requireAttr(attrs, "ref", "id")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("id", id); err != nil {
		return "", "", err
	}

	if rawName, ok := node.Attr("name"); ok {
		name = params.Substitute(rawName)
		if err := validateUserName("name", name); err != nil {
			return "", "", err
		}
	} else {
		name = syntheticArgName(argCounter)
	}

	if parentProps != nil {
		parentProps.Set(name, descriptor.RefValue(id))
	}
	return name, id, nil
}

// parseAlias handles the Alias row.
func (c *Context) parseAlias(doc *doctree.Document, node *doctree.Node, attrs map[string]string) (name, id string, err error) {
	if err := checkAttrs("alias", node, "id", "as"); err != nil {
		return "", "", err
	}
	target, err := requireAttr(attrs, "alias", "id")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("id", target); err != nil {
		return "", "", err
	}
	as, err := requireAttr(attrs, "alias", "as")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("as", as); err != nil {
		return "", "", err
	}
	if _, ok := c.Table.Lookup(target); !ok {
		return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrUnknownRef, "alias target id %q does not exist", target)
	}

	d := descriptor.NewDescriptor(as, "alias")
	d.Alias = target
	d.SourceID = doc.SourceID
	d.SourceOffset = node.Offset
	if existing, err := c.Table.Insert(d); err != nil {
		return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrDuplicateID,
			"duplicate id %q (first declared in %q at byte offset %d)", as, existing.SourceID, existing.SourceOffset)
	}
	return "", "", nil
}

// parseDefault handles the Default row.
func (c *Context) parseDefault(node *doctree.Node, attrs map[string]string, params *Params) (name, id string, err error) {
	if err := checkAttrs("default", node, "name", "value"); err != nil {
		return "", "", err
	}
	n, err := requireAttr(attrs, "default", "name")
	if err != nil {
		return "", "", err
	}
	if err := validateUserName("name", n); err != nil {
		return "", "", err
	}
	v, err := requireAttr(attrs, "default", "value")
	if err != nil {
		return "", "", err
	}
	params.SetDefault(n, v)
	return "", "", nil
}

func syntheticArgName(argCounter *int) string {
	n := *argCounter
	*argCounter++
	return fmt.Sprintf("_arg_%d", n)
}
