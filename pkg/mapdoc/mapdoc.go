// Package mapdoc defines the canonical JSON document format for mind
// maps: a flat node table plus a root pointer. It is used for files, API
// payloads, and storage, and is designed for round-trip fidelity -
// import → edit → export preserves ids, sibling order, and position hints.
package mapdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/mindwell/mindgrid/pkg/tree"
)

// Document is the serialization format for one mind map.
type Document struct {
	Root  string `json:"root" bson:"root"`
	Nodes []Node `json:"nodes" bson:"nodes"`
}

// Node is the wire form of a single map node. Children carries the
// authoritative sibling order; Parent is also written so hand-edited files
// can omit children lists and rely on parent links alone.
type Node struct {
	ID        string      `json:"id" bson:"id"`
	Parent    string      `json:"parent,omitempty" bson:"parent,omitempty"`
	Title     string      `json:"title" bson:"title"`
	Children  []string    `json:"children,omitempty" bson:"children,omitempty"`
	Collapsed bool        `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	Width     float64     `json:"width,omitempty" bson:"width,omitempty"`
	Position  *tree.Point `json:"position,omitempty" bson:"position,omitempty"`
}

// Marshal converts a tree to indented JSON bytes.
func Marshal(t *tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a tree as JSON to w. Nodes are emitted in depth-first
// child order starting at the root, so output is deterministic.
func Write(t *tree.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a tree to a JSON file created with 0644 permissions.
func WriteFile(t *tree.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(t, f)
}

// Read decodes a JSON document from r and builds a validated tree.
func Read(r io.Reader) (*tree.Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToTree(doc)
}

// ReadFile reads a JSON file and returns the decoded tree.
func ReadFile(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// FromTree converts a tree to its document form. Traversal is depth-first
// in child order from the root, which both fixes the output order and
// round-trips sibling order exactly.
func FromTree(t *tree.Tree) Document {
	doc := Document{Root: t.RootID()}
	var walk func(id string)
	walk = func(id string) {
		n, ok := t.Node(id)
		if !ok {
			return
		}
		doc.Nodes = append(doc.Nodes, Node{
			ID:        n.ID,
			Parent:    n.ParentID,
			Title:     n.Title,
			Children:  n.Children,
			Collapsed: n.Collapsed,
			Width:     n.Style.Width,
			Position:  n.PositionHint,
		})
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.RootID())
	return doc
}

// ToTree builds a tree from a document and validates the full invariant
// set. Nodes with an empty id are assigned a fresh uuid; such nodes can
// only be linked through their Parent field, since nothing can reference
// them by id.
//
// Sibling order comes from the children lists where present. Nodes that
// name a parent but appear in no children list are appended to their
// parent in document order, so minimal hand-written files (parent links
// only) still load.
func ToTree(doc Document) (*tree.Tree, error) {
	byID := make(map[string]*Node, len(doc.Nodes))
	order := make([]string, 0, len(doc.Nodes))
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("node %s: %w", n.ID, tree.ErrDuplicateNodeID)
		}
		byID[n.ID] = n
		order = append(order, n.ID)
	}

	root := byID[doc.Root]
	if doc.Root == "" || root == nil {
		return nil, tree.ErrNoRoot
	}

	// Children lists are authoritative for order; parent-only nodes are
	// appended afterwards in document order.
	listed := make(map[string]bool, len(doc.Nodes))
	childOrder := make(map[string][]string, len(doc.Nodes))
	for _, id := range order {
		n := byID[id]
		for _, c := range n.Children {
			if byID[c] == nil {
				return nil, fmt.Errorf("node %s child %s: %w", id, c, tree.ErrDanglingChild)
			}
			listed[c] = true
			childOrder[id] = append(childOrder[id], c)
		}
	}
	for _, id := range order {
		n := byID[id]
		if id == root.ID || listed[id] || n.Parent == "" {
			continue
		}
		if byID[n.Parent] == nil {
			return nil, fmt.Errorf("node %s parent %s: %w", id, n.Parent, tree.ErrDanglingParent)
		}
		childOrder[n.Parent] = append(childOrder[n.Parent], id)
	}

	t := tree.New(toTreeNode(root))
	var add func(parentID string) error
	add = func(parentID string) error {
		for _, c := range childOrder[parentID] {
			n := toTreeNode(byID[c])
			n.ParentID = parentID
			if err := t.Add(n); err != nil {
				return fmt.Errorf("add node %s: %w", c, err)
			}
			if err := add(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := add(root.ID); err != nil {
		return nil, err
	}

	if t.Len() != len(doc.Nodes) {
		return nil, tree.ErrCycle // unreachable nodes form a detached loop
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func toTreeNode(n *Node) tree.Node {
	return tree.Node{
		ID:           n.ID,
		Title:        n.Title,
		Collapsed:    n.Collapsed,
		Style:        tree.Style{Width: n.Width},
		PositionHint: n.Position,
	}
}
