package tree

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Tree.Add] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Tree.Add] when a node with the same
	// ID already exists. Node IDs must be unique within a tree.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownParent is returned by [Tree.Add] when the node references a
	// parent that does not exist in the tree.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrNoRoot is returned by [Tree.Validate] when RootID is empty or does
	// not resolve to a node.
	ErrNoRoot = errors.New("tree has no root")

	// ErrRootHasParent is returned by [Tree.Validate] when the root node
	// carries a non-empty parent reference.
	ErrRootHasParent = errors.New("root node must not have a parent")

	// ErrDanglingParent is returned by [Tree.Validate] when a node's parent
	// reference does not resolve, or the parent's children list does not
	// contain the node.
	ErrDanglingParent = errors.New("parent reference does not resolve")

	// ErrDanglingChild is returned by [Tree.Validate] when a children list
	// contains an ID with no corresponding node.
	ErrDanglingChild = errors.New("child reference does not resolve")

	// ErrDuplicateChild is returned by [Tree.Validate] when an ID appears
	// more than once across all children lists.
	ErrDuplicateChild = errors.New("child listed more than once")

	// ErrCycle is returned by [Tree.Validate] when a node is its own
	// transitive descendant. A valid tree is always acyclic.
	ErrCycle = errors.New("tree contains a cycle")
)

// Point is a 2D coordinate in layout space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Style carries per-node presentation hints. Only Width participates in
// layout; everything else is opaque to this package.
type Style struct {
	Width float64 `json:"width,omitempty" bson:"width,omitempty"`
}

// Node is a single labeled element of the map. Children order is
// semantically meaningful: it encodes sibling rank and, at the root level,
// the left/right branch distribution.
//
// The zero value is not usable - ID must be set before adding to a Tree.
type Node struct {
	ID        string   // Unique identifier
	ParentID  string   // Empty exactly for the root
	Title     string   // Display text; drives height estimation
	Children  []string // Ordered child IDs
	Collapsed bool     // Hides descendants from layout and traversal
	Style     Style    // Presentation hints (width feeds layout)

	// PositionHint is an externally supplied coordinate. Layout consults
	// only the X sign of root-level children to pick their branch side.
	PositionHint *Point
}

// Tree is the authoritative id→Node mapping plus a distinguished root.
//
// Mutation commands ([Tree.Reparent], [Tree.ReorderSibling], [Tree.MoveBy])
// never modify the receiver: they return a new snapshot sharing untouched
// nodes with the old one. Callers must therefore treat node values obtained
// from a Tree as read-only. Tree is not safe for concurrent mutation of the
// same snapshot without external synchronization.
type Tree struct {
	nodes  map[string]*Node
	rootID string
}

// New creates a tree containing only the given root node.
// The root's ParentID and Children are reset.
func New(root Node) *Tree {
	root.ParentID = ""
	root.Children = nil
	return &Tree{
		nodes:  map[string]*Node{root.ID: &root},
		rootID: root.ID,
	}
}

// Add inserts a node under its ParentID, appending it to the parent's
// children. It is the construction-time builder; interactive edits go
// through the pure mutation commands instead.
func (t *Tree) Add(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := t.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	parent, ok := t.nodes[n.ParentID]
	if !ok {
		return ErrUnknownParent
	}
	node := &n
	t.nodes[node.ID] = node
	parent.Children = append(parent.Children, node.ID)
	return nil
}

// RootID returns the ID of the root node.
func (t *Tree) RootID() string { return t.rootID }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID and true, or nil and false.
// The returned node is shared with the tree snapshot; do not modify it.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Children returns the ordered child IDs of the node, or nil if the node
// does not exist. The returned slice is a read-only view.
func (t *Tree) Children(id string) []string {
	if n, ok := t.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// IDs returns all node IDs in sorted order, for deterministic iteration.
func (t *Tree) IDs() []string {
	return slices.Sorted(maps.Keys(t.nodes))
}

// Descendants returns the set of all transitive descendants of id,
// excluding id itself. Collapse state is ignored: a collapsed subtree still
// has descendants. Returns an empty set for unknown IDs.
func (t *Tree) Descendants(id string) map[string]bool {
	set := make(map[string]bool)
	var walk func(string)
	walk = func(cur string) {
		n, ok := t.nodes[cur]
		if !ok {
			return
		}
		for _, c := range n.Children {
			if set[c] {
				continue // defends against malformed child lists
			}
			set[c] = true
			walk(c)
		}
	}
	walk(id)
	return set
}

// VisibleNodes returns all node IDs reachable from the root without passing
// through a collapsed node, in depth-first preorder. The root is always
// visible, even when collapsed.
func (t *Tree) VisibleNodes() []string {
	if _, ok := t.nodes[t.rootID]; !ok {
		return nil
	}
	ids := make([]string, 0, len(t.nodes))
	var walk func(string)
	walk = func(cur string) {
		n, ok := t.nodes[cur]
		if !ok {
			return
		}
		ids = append(ids, cur)
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.rootID)
	return ids
}

// IsAncestor reports whether a is b itself or a transitive ancestor of b.
// Walks parent pointers, so it is O(depth).
func (t *Tree) IsAncestor(a, b string) bool {
	if a == b {
		return true
	}
	seen := 0
	for cur := b; cur != ""; {
		n, ok := t.nodes[cur]
		if !ok {
			return false
		}
		if n.ParentID == a {
			return true
		}
		cur = n.ParentID
		if seen++; seen > len(t.nodes) {
			return false // corrupted parent chain
		}
	}
	return false
}

// Validate checks the five tree invariants and returns nil if all hold:
//
//  1. Exactly one node (the root) has an empty parent reference.
//  2. Every non-root parent reference resolves, and the parent's children
//     list contains the node.
//  3. The tree is acyclic.
//  4. Every ID appears in at most one children list, at most once.
//  5. Every children entry resolves to an existing node.
//
// Cycle detection runs in O(N) using depth-first search from the root plus
// a reachability check.
func (t *Tree) Validate() error {
	root, ok := t.nodes[t.rootID]
	if t.rootID == "" || !ok {
		return ErrNoRoot
	}
	if root.ParentID != "" {
		return ErrRootHasParent
	}

	listedBy := make(map[string]string, len(t.nodes))
	for id, n := range t.nodes {
		for _, c := range n.Children {
			if _, ok := t.nodes[c]; !ok {
				return ErrDanglingChild
			}
			if _, dup := listedBy[c]; dup {
				return ErrDuplicateChild
			}
			listedBy[c] = id
		}
		if id == t.rootID {
			continue
		}
		if n.ParentID == "" {
			return ErrRootHasParent // second node claiming root status
		}
		if _, ok := t.nodes[n.ParentID]; !ok {
			return ErrDanglingParent
		}
	}

	for id, n := range t.nodes {
		if id == t.rootID {
			continue
		}
		if listedBy[id] != n.ParentID {
			return ErrDanglingParent
		}
	}
	if _, rooted := listedBy[t.rootID]; rooted {
		return ErrCycle
	}

	// Every node must be reachable from the root; an unreachable group with
	// consistent parent links can only exist as a detached cycle.
	reach := t.Descendants(t.rootID)
	if len(reach)+1 != len(t.nodes) {
		return ErrCycle
	}
	return nil
}

// clone returns a shallow copy of the tree with a fresh nodes map.
// Individual nodes are still shared; mutations copy the nodes they touch.
func (t *Tree) clone() *Tree {
	return &Tree{nodes: maps.Clone(t.nodes), rootID: t.rootID}
}

// cloneNode replaces the node in t with a copy and returns the copy.
// The children slice is cloned so appends do not alias the old snapshot.
func (t *Tree) cloneNode(id string) *Node {
	old := t.nodes[id]
	n := *old
	n.Children = slices.Clone(old.Children)
	t.nodes[id] = &n
	return &n
}
