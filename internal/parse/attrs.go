package parse

import (
	"strings"

	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/doctree"
	"github.com/InsigMath/mitsuba2/internal/tags"
)

// checkAttrs errors if node carries any attribute outside the allowed set
// for its tag (§4.7: "all attribute sets are exhaustively checked").
func checkAttrs(tagName string, node *doctree.Node, allowed ...string) error {
	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}
	for _, a := range node.Attrs {
		if !allowedSet[a.Name] {
			return mtsxmlerrors.New(mtsxmlerrors.ErrAttribute, "unexpected attribute %q on <%s>", a.Name, tagName)
		}
	}
	return nil
}

// requireAttr errors if name is missing or empty.
func requireAttr(attrs map[string]string, tagName, name string) (string, error) {
	v, ok := attrs[name]
	if !ok {
		return "", mtsxmlerrors.New(mtsxmlerrors.ErrAttribute, `<%s> is missing required attribute %q`, tagName, name)
	}
	return v, nil
}

// validateUserName rejects a literal leading underscore in a user-sourced
// id or name, reserved for internally synthesized identifiers (§3 Invariants).
func validateUserName(kind, value string) error {
	if strings.HasPrefix(value, "_") {
		return mtsxmlerrors.New(mtsxmlerrors.ErrReservedName, "%s %q begins with a reserved underscore prefix", kind, value)
	}
	return nil
}

// checkStructure implements §4.7's structural checks: a transform
// element's children must be transform operations and vice versa, and a
// non-object element may not be a child of a transform operation or of
// another non-object. parentKind is tags.Invalid for the document root,
// which structurally permits anything except a bare transform operation.
func checkStructure(kind, parentKind tags.Kind) error {
	if parentKind == tags.Transform {
		if !kind.IsTransformOp() {
			return mtsxmlerrors.New(mtsxmlerrors.ErrMisplacedTag, "only transform operations may appear inside <transform>, found %s", kind)
		}
		return nil
	}
	if kind.IsTransformOp() {
		return mtsxmlerrors.New(mtsxmlerrors.ErrMisplacedTag, "%s may only appear inside <transform>", kind)
	}
	if kind != tags.Object && parentKind != tags.Object && parentKind != tags.Invalid {
		return mtsxmlerrors.New(mtsxmlerrors.ErrMisplacedTag, "%s may not be a child of a non-object element", kind)
	}
	return nil
}
