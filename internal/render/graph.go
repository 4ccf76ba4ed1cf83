package render

// Graph is the render collaborator. The core only grafts and removes nodes
// and flips visibility; drawing is someone else's job.
type Graph interface {
	Attach(node, parent *Node)
	Detach(node, parent *Node)
	SetVisible(node *Node, visible bool)
}

// Tree is an in-memory Graph rooted at Root.
type Tree struct {
	Root *Node
}

func NewTree() *Tree {
	return &Tree{Root: NewNode("root", Geometry{Kind: KindNone})}
}

// Attach grafts node under parent, or under the root when parent is nil.
// A node already attached elsewhere is moved.
func (t *Tree) Attach(node, parent *Node) {
	if node == nil {
		return
	}
	if parent == nil {
		parent = t.Root
	}
	if node.parent != nil {
		removeChild(node.parent, node)
	}
	node.parent = parent
	parent.children = append(parent.children, node)
}

// Detach removes node from parent (its current parent when nil).
// Detaching a node that is not attached is a no-op.
func (t *Tree) Detach(node, parent *Node) {
	if node == nil {
		return
	}
	if parent == nil {
		parent = node.parent
	}
	if parent == nil || node.parent != parent {
		return
	}
	removeChild(parent, node)
	node.parent = nil
}

func (t *Tree) SetVisible(node *Node, visible bool) {
	if node != nil {
		node.Visible = visible
	}
}

// Walk visits every attached node below the root.
func (t *Tree) Walk(fn func(*Node) bool) {
	for _, c := range t.Root.children {
		if !c.Walk(fn) {
			return
		}
	}
}

// Len counts attached nodes below the root.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*Node) bool { n++; return true })
	return n
}

func removeChild(parent, child *Node) {
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return
		}
	}
}
