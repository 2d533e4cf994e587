package doctree

import (
	"strconv"
	"strings"
	"unicode"

	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/version"
)

// Upgrade rewrites doc in place for documents older than 2.0.0, per §4.4:
// camelCase name attributes become underscore_case, lookAt is renamed to
// lookat, and uoffset/voffset/uscale/vscale float children are folded into
// a synthesized transform. Upgrade is idempotent: running it twice has no
// further effect, since the second pass finds no camelCase names and no
// lookAt elements left to rewrite.
func Upgrade(doc *Document, docVersion version.Version) error {
	if !docVersion.Less(version.Version{Major: 2, Minor: 0, Patch: 0}) {
		return nil
	}

	namesChanged := rewriteNames(doc.Root)
	lookAtChanged := renameLookAt(doc.Root)
	uvChanged, err := foldUVAttributes(doc.Root)
	if err != nil {
		return mtsxmlerrors.Wrap(mtsxmlerrors.ErrSemantic, err, "failed to upgrade legacy uv offset/scale attributes")
	}

	if namesChanged || lookAtChanged || uvChanged {
		doc.Modified = true
	}
	return nil
}

func rewriteNames(n *Node) bool {
	changed := false
	for i, a := range n.Attrs {
		if a.Name == "name" {
			rewritten := camelToUnderscore(a.Value)
			if rewritten != a.Value {
				n.Attrs[i].Value = rewritten
				changed = true
			}
		}
	}
	for _, c := range n.Children {
		if rewriteNames(c) {
			changed = true
		}
	}
	return changed
}

func camelToUnderscore(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func renameLookAt(n *Node) bool {
	changed := false
	if n.Name == "lookAt" {
		n.Name = "lookat"
		changed = true
	}
	for _, c := range n.Children {
		if renameLookAt(c) {
			changed = true
		}
	}
	return changed
}

var uvAttrNames = map[string]bool{"uoffset": true, "voffset": true, "uscale": true, "vscale": true}

func foldUVAttributes(n *Node) (bool, error) {
	changed := false
	uv := map[string]float64{}
	var keep []*Node
	for _, c := range n.Children {
		name, _ := c.Attr("name")
		// rewriteNames has already turned a legacy "uOffset" into "u_offset".
		name = strings.ReplaceAll(strings.ToLower(name), "_", "")
		if c.Name == "float" && uvAttrNames[name] {
			value, _ := c.Attr("value")
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return false, err
			}
			uv[name] = f
			changed = true
			continue
		}
		keep = append(keep, c)
	}
	n.Children = keep

	if len(uv) > 0 {
		transformNode := &Node{Name: "transform"}
		transformNode.SetAttr("name", "to_uv")

		uoffset, voffset := uv["uoffset"], uv["voffset"]
		if uoffset != 0 || voffset != 0 {
			t := &Node{Name: "translate"}
			t.SetAttr("x", formatFloat(uoffset))
			t.SetAttr("y", formatFloat(voffset))
			transformNode.AppendChild(t)
		}
		uscale, vscale := uv["uscale"], uv["vscale"]
		if _, ok := uv["uscale"]; !ok {
			uscale = 1
		}
		if _, ok := uv["vscale"]; !ok {
			vscale = 1
		}
		if uscale != 1 || vscale != 1 {
			s := &Node{Name: "scale"}
			s.SetAttr("x", formatFloat(uscale))
			s.SetAttr("y", formatFloat(vscale))
			transformNode.AppendChild(s)
		}
		n.AppendChild(transformNode)
	}

	for _, c := range n.Children {
		childChanged, err := foldUVAttributes(c)
		if err != nil {
			return false, err
		}
		changed = changed || childChanged
	}
	return changed, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
