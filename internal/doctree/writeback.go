package doctree

import (
	"fmt"
	"strings"
)

// Serialize renders doc.Root back to XML text, stripping synthetic
// "_unnamed_*" ids and "_arg_*" names and the synthesized type="scene" on
// the root, per §6's write-back rules. The caller is responsible for
// setting the root's version attribute to the current runtime version
// before calling Serialize.
func Serialize(root *Node) []byte {
	clone := cloneForWriteback(root, true)
	var b strings.Builder
	writeNode(&b, clone, 0)
	return []byte(b.String())
}

func cloneForWriteback(n *Node, isRoot bool) *Node {
	out := &Node{Name: n.Name, Text: n.Text}
	for _, a := range n.Attrs {
		if isSynthetic(a.Name, a.Value) {
			continue
		}
		if isRoot && a.Name == "type" && a.Value == "scene" {
			continue
		}
		out.Attrs = append(out.Attrs, a)
	}
	for _, c := range n.Children {
		out.AppendChild(cloneForWriteback(c, false))
	}
	return out
}

func isSynthetic(name, value string) bool {
	if name != "id" && name != "name" {
		return false
	}
	return strings.HasPrefix(value, "_unnamed_") || strings.HasPrefix(value, "_arg_")
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		fmt.Fprintf(b, " %s=%q", a.Name, a.Value)
	}
	if len(n.Children) == 0 && n.Text == "" {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">")
	if n.Text != "" {
		b.WriteString(n.Text)
	}
	if len(n.Children) > 0 {
		b.WriteString("\n")
		for _, c := range n.Children {
			writeNode(b, c, depth+1)
		}
		b.WriteString(indent)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteString(">\n")
}
