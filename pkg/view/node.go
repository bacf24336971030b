// Package view is an in-memory tree of visual nodes: the surface renderers draw on.
//
// Nodes carry the subset of DOM behaviour the renderers rely on: an element name, a
// class set, text, attributes, a position for floating stacks, event handlers and a
// per-node state slot. Every node belongs to a Document, which hands out stable ids
// and tracks how many nodes are alive.
package view

import (
	"slices"
	"sort"
	"strings"
)

// NodeID is the stable identity of a node within its document.
type NodeID uint64

// Point is a position in pixels.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Document owns a tree of nodes.
type Document struct {
	next  NodeID
	nodes map[NodeID]*Node
	root  *Node
}

// NewDocument creates a document with an empty "body" root.
func NewDocument() *Document {
	d := &Document{nodes: make(map[NodeID]*Node)}
	d.root = d.create("body")
	return d
}

// Root returns the root node.
func (d *Document) Root() *Node {
	return d.root
}

// Len returns the number of live nodes, root included.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Lookup returns the live node with the given id.
func (d *Document) Lookup(id NodeID) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

func (d *Document) create(element string) *Node {
	d.next++
	n := &Node{id: d.next, doc: d, element: element}
	d.nodes[n.id] = n
	return n
}

// Node is one visual element.
type Node struct {
	id       NodeID
	doc      *Document
	element  string
	parent   *Node
	children []*Node

	classes  map[string]struct{}
	text     string
	attrs    map[string]string
	position Point
	handlers map[EventType]Handler

	// identity is the style class of the renderer that last entered this node.
	identity string
	state    any
	datum    any
}

// ID returns the node's stable id.
func (n *Node) ID() NodeID { return n.id }

// Element returns the element name ("div", "span", ...).
func (n *Node) Element() string { return n.element }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil for the root and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Child returns the i-th child, or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Live reports whether the node is still part of its document.
func (n *Node) Live() bool {
	_, ok := n.doc.nodes[n.id]
	return ok
}

// Append creates a new child element at the end of n's children.
func (n *Node) Append(element string) *Node {
	c := n.doc.create(element)
	c.parent = n
	n.children = append(n.children, c)
	return c
}

// Remove detaches n from its parent and releases it and its descendants.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.children = slices.DeleteFunc(n.parent.children, func(c *Node) bool { return c == n })
		n.parent = nil
	}
	n.release()
}

// RemoveChildren releases every child of n.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
		c.release()
	}
	n.children = nil
}

// Reset returns n to a freshly created state: no children, classes, text,
// attributes, handlers, identity, state or datum. Its position is kept.
func (n *Node) Reset() {
	n.RemoveChildren()
	n.classes = nil
	n.text = ""
	n.attrs = nil
	n.handlers = nil
	n.identity = ""
	n.state = nil
	n.datum = nil
}

func (n *Node) release() {
	for _, c := range n.children {
		c.release()
	}
	delete(n.doc.nodes, n.id)
}

// Classed reports whether n has the class.
func (n *Node) Classed(class string) bool {
	_, ok := n.classes[class]
	return ok
}

// SetClassed adds or removes a class.
func (n *Node) SetClassed(class string, on bool) *Node {
	if on {
		if n.classes == nil {
			n.classes = make(map[string]struct{})
		}
		n.classes[class] = struct{}{}
	} else {
		delete(n.classes, class)
	}
	return n
}

// SetClass replaces the class set with the space separated list.
func (n *Node) SetClass(classes string) *Node {
	n.classes = nil
	for _, c := range strings.Fields(classes) {
		n.SetClassed(c, true)
	}
	return n
}

// Class returns the sorted, space separated class list.
func (n *Node) Class() string {
	cs := make([]string, 0, len(n.classes))
	for c := range n.classes {
		cs = append(cs, c)
	}
	sort.Strings(cs)
	return strings.Join(cs, " ")
}

// Text returns the node's own text.
func (n *Node) Text() string { return n.text }

// SetText sets the node's own text.
func (n *Node) SetText(s string) *Node {
	n.text = s
	return n
}

// Attr returns an attribute value.
func (n *Node) Attr(name string) string { return n.attrs[name] }

// SetAttr sets an attribute; an empty value removes it.
func (n *Node) SetAttr(name, value string) *Node {
	if value == "" {
		delete(n.attrs, name)
		return n
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	return n
}

// Position returns the node's position.
func (n *Node) Position() Point { return n.position }

// SetPosition moves the node.
func (n *Node) SetPosition(p Point) *Node {
	n.position = p
	return n
}

// Identity returns the style class recorded by the last renderer to enter n.
func (n *Node) Identity() string { return n.identity }

// SetIdentity records the renderer identity of n.
func (n *Node) SetIdentity(styleClass string) { n.identity = styleClass }

// State returns the per-node state slot. Renderers keep state that must survive
// updates here; it is cleared with the node.
func (n *Node) State() any { return n.state }

// SetState sets the per-node state slot.
func (n *Node) SetState(s any) { n.state = s }

// Datum returns the data item bound to n.
func (n *Node) Datum() any { return n.datum }

// SetDatum binds a data item to n.
func (n *Node) SetDatum(d any) { n.datum = d }

// Select returns the first descendant, in document order, carrying the class.
func (n *Node) Select(class string) *Node {
	for _, c := range n.children {
		if c.Classed(class) {
			return c
		}
		if found := c.Select(class); found != nil {
			return found
		}
	}
	return nil
}

// SelectElement returns the first descendant with the element name.
func (n *Node) SelectElement(element string) *Node {
	for _, c := range n.children {
		if c.element == element {
			return c
		}
		if found := c.SelectElement(element); found != nil {
			return found
		}
	}
	return nil
}

// SelectAll returns every descendant carrying the class, in document order.
func (n *Node) SelectAll(class string) []*Node {
	var found []*Node
	n.walk(func(c *Node) {
		if c != n && c.Classed(class) {
			found = append(found, c)
		}
	})
	return found
}

// Closest returns n or its nearest ancestor carrying the class.
func (n *Node) Closest(class string) *Node {
	for c := n; c != nil; c = c.parent {
		if c.Classed(class) {
			return c
		}
	}
	return nil
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// Join makes n have exactly count children with the class, matched by position:
// missing ones are appended with the element name and made ready by enter (which may
// be nil), extra ones are removed. Children without the class are left alone.
func (n *Node) Join(class, element string, count int, enter func(*Node)) []*Node {
	var matched []*Node
	for _, c := range n.children {
		if c.Classed(class) {
			matched = append(matched, c)
		}
	}
	for len(matched) > count {
		last := matched[len(matched)-1]
		last.Remove()
		matched = matched[:len(matched)-1]
	}
	for len(matched) < count {
		c := n.Append(element).SetClassed(class, true)
		if enter != nil {
			enter(c)
		}
		matched = append(matched, c)
	}
	return matched
}
