// Package parse implements Pass 1: the recursive-descent walk over a
// document tree that validates structure, substitutes parameters,
// evaluates transforms and color/spectrum shorthand, and emits a
// descriptor table (§4.7).
package parse

import (
	"fmt"
	"log/slog"

	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/colorlower"
	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/docloc"
	"github.com/InsigMath/mitsuba2/internal/doctree"
	"github.com/InsigMath/mitsuba2/internal/tags"
)

// Context carries everything the recursive parser needs that is not
// already threaded through the call signature itself: the descriptor
// table being built, the tag/class registry, the active variant and
// monochrome flag, the include resolver, the logger, and the
// context-wide counter for synthesizing "_unnamed_N" ids (§3 Parse context).
type Context struct {
	Table           *descriptor.Table
	Registry        *tags.Registry
	Variant         string
	Monochrome      bool
	Resolver        FileResolver
	Logger          *slog.Logger
	MaxIncludeDepth int

	lowerer     *colorlower.Lowerer
	nextUnnamed int
	locs        map[*doctree.Document]*docloc.Map
}

// NewContext builds a parse context over table, ready to run Parse.
func NewContext(table *descriptor.Table, registry *tags.Registry, variant string, monochrome bool, resolver FileResolver, logger *slog.Logger, maxIncludeDepth int) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Context{
		Table:           table,
		Registry:        registry,
		Variant:         variant,
		Monochrome:      monochrome,
		Resolver:        resolver,
		Logger:          logger,
		MaxIncludeDepth: maxIncludeDepth,
		locs:            make(map[*doctree.Document]*docloc.Map),
	}
	c.lowerer = &colorlower.Lowerer{
		Registry:   registry,
		Variant:    variant,
		Monochrome: monochrome,
		NextID:     c.nextID,
	}
	return c
}

func (c *Context) nextID() string {
	c.nextUnnamed++
	return fmt.Sprintf("_unnamed_%d", c.nextUnnamed)
}

func (c *Context) locate(doc *doctree.Document, offset int) (line, column int) {
	m, ok := c.locs[doc]
	if !ok {
		m = docloc.New(doc.Text)
		c.locs[doc] = m
	}
	line, column, ok = m.Locate(offset)
	if !ok {
		return 0, 0
	}
	return line, column
}

// Parse runs Pass 1 over doc, returning the root descriptor's id.
func (c *Context) Parse(doc *doctree.Document, params *Params) (string, error) {
	attrs := c.substituteAttrs(doc.Root, params)
	kind := c.resolveKind(doc.Root, attrs)
	if kind != tags.Object {
		line, col := c.locate(doc, doc.Root.Offset)
		return "", mtsxmlerrors.Locate(
			mtsxmlerrors.New(mtsxmlerrors.ErrMisplacedTag, "document root must be an object, got <%s>", doc.Root.Name),
			doc.SourceID, line, col)
	}

	argCounter := 0
	_, id, err := c.parseNode(doc, doc.Root, tags.Invalid, nil, params, &argCounter, 0, false, nil)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *Context) substituteAttrs(node *doctree.Node, params *Params) map[string]string {
	out := make(map[string]string, len(node.Attrs))
	for _, a := range node.Attrs {
		out[a.Name] = params.Substitute(a.Value)
	}
	return out
}

// resolveKind implements §4.7 step 3: primitive kinds by name, otherwise
// Object if a class is registered for (name, variant) or a type attribute
// is present, otherwise Invalid. "scene" is always retagged Object.
func (c *Context) resolveKind(node *doctree.Node, attrs map[string]string) tags.Kind {
	if node.Name == "scene" {
		return tags.Object
	}
	k := c.Registry.ResolveTag(node.Name, c.Variant)
	if k == tags.Invalid {
		if _, hasType := attrs["type"]; hasType {
			return tags.Object
		}
	}
	return k
}
