// Package doctree builds an in-memory document tree with per-element byte
// offsets, and implements the structural mutations (version upgrade,
// include splicing, write-back serialization) the parser and loader need
// on top of it.
package doctree

// Attr is one element attribute, keeping the document's attribute order.
type Attr struct {
	Name  string
	Value string
}

// Node is one element in the document tree. Comments, processing
// instructions, and character data outside of significant text content
// are dropped during reading; only elements and their trimmed text
// content survive.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
	Offset   int
	Parent   *Node
}

// Attr returns the value of the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr overwrites name's value if present, or appends a new attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute, if present.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// AppendChild appends child to n's children and sets its parent.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild removes child from n's children, if present.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// ChildrenNamed returns n's direct children with the given element name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
