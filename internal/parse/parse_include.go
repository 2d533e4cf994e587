package parse

import (
	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/doctree"
	"github.com/InsigMath/mitsuba2/internal/tags"
	"github.com/InsigMath/mitsuba2/internal/version"
)

// parseInclude handles the Include row: resolve and read the file,
// upgrade it if it carries a version, then either splice a "scene"
// root's children into the current parent or parse the included root in
// place of the <include> element itself (§4.7, §9 include semantics).
func (c *Context) parseInclude(
	node *doctree.Node,
	attrs map[string]string,
	parentKind tags.Kind,
	parentProps *descriptor.Properties,
	params *Params,
	argCounter *int,
	depth int,
	withinEmitter bool,
) (name, id string, err error) {
	if err := checkAttrs("include", node, "filename"); err != nil {
		return "", "", err
	}
	filename, err := requireAttr(attrs, "include", "filename")
	if err != nil {
		return "", "", err
	}

	if depth+1 > c.MaxIncludeDepth {
		return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrIncludeDepth,
			"include recursion exceeds the maximum depth of %d", c.MaxIncludeDepth)
	}
	if c.Resolver == nil {
		return "", "", mtsxmlerrors.New(mtsxmlerrors.ErrResource, "no file resolver configured to include %q", filename)
	}

	data, resolvedPath, err := c.Resolver.Resolve(filename)
	if err != nil {
		return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrResource, err, "could not include %q", filename)
	}

	includedDoc, err := doctree.Read(resolvedPath, data)
	if err != nil {
		return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "could not parse included document %q", resolvedPath)
	}

	if v, ok := includedDoc.Root.Attr("version"); ok {
		docVersion, err := version.Parse(v)
		if err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "invalid version in included document %q", resolvedPath)
		}
		if err := doctree.Upgrade(includedDoc, docVersion); err != nil {
			return "", "", mtsxmlerrors.Wrap(mtsxmlerrors.ErrSyntax, err, "could not upgrade included document %q", resolvedPath)
		}
	}

	c.Logger.Debug("resolved include", "filename", filename, "resolved_path", resolvedPath, "depth", depth+1)

	if includedDoc.Root.Name == "scene" {
		for _, child := range includedDoc.Root.Children {
			if _, _, err := c.parseNode(includedDoc, child, parentKind, parentProps, params, argCounter, depth+1, withinEmitter, nil); err != nil {
				return "", "", err
			}
		}
		return "", "", nil
	}

	return c.parseNode(includedDoc, includedDoc.Root, parentKind, parentProps, params, argCounter, depth+1, withinEmitter, nil)
}
