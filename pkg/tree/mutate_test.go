package tree

import (
	"slices"
	"testing"
)

func TestReparent(t *testing.T) {
	tests := []struct {
		name      string
		node      string
		newParent string
		wantOK    bool
	}{
		{"unknown node", "ghost", "b", false},
		{"unknown parent", "a", "ghost", false},
		{"root", "r", "b", false},
		{"onto itself", "a", "a", false},
		{"onto own descendant", "a", "a1", false},
		{"same parent", "a", "r", false},
		{"valid", "a1", "b", true},
		{"whole subtree", "a", "b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := buildTree(t)
			next, ok := tr.Reparent(tt.node, tt.newParent)
			if ok != tt.wantOK {
				t.Fatalf("Reparent(%s, %s) ok = %v, want %v", tt.node, tt.newParent, ok, tt.wantOK)
			}
			if !ok {
				if next != tr {
					t.Error("rejected mutation returned a new snapshot")
				}
				return
			}

			moved, _ := next.Node(tt.node)
			if moved.ParentID != tt.newParent {
				t.Errorf("ParentID = %s, want %s", moved.ParentID, tt.newParent)
			}
			kids := next.Children(tt.newParent)
			if kids[len(kids)-1] != tt.node {
				t.Errorf("Children(%s) = %v, want %s appended last", tt.newParent, kids, tt.node)
			}
			if err := next.Validate(); err != nil {
				t.Errorf("mutated tree invalid: %v", err)
			}
		})
	}
}

func TestReparentLeavesReceiverUnchanged(t *testing.T) {
	tr := buildTree(t)
	before := snapshot(tr)

	if _, ok := tr.Reparent("a1", "b"); !ok {
		t.Fatal("Reparent rejected")
	}

	if diff := diffSnapshot(before, snapshot(tr)); diff != "" {
		t.Errorf("receiver changed after Reparent: %s", diff)
	}
}

func TestReorderSibling(t *testing.T) {
	tests := []struct {
		name   string
		node   string
		target string
		before bool
		wantOK bool
		want   []string // children of the shared parent afterwards
	}{
		{"before first", "a2", "a1", true, true, []string{"a2", "a1"}},
		{"after last", "a1", "a2", false, true, []string{"a2", "a1"}},
		{"already in place", "a1", "a2", true, true, []string{"a1", "a2"}},
		{"same node", "a1", "a1", true, false, nil},
		{"different parents", "a1", "b", true, false, nil},
		{"root", "r", "a", true, false, nil},
		{"unknown node", "ghost", "a1", true, false, nil},
		{"unknown target", "a1", "ghost", true, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := buildTree(t)
			next, ok := tr.ReorderSibling(tt.node, tt.target, tt.before)
			if ok != tt.wantOK {
				t.Fatalf("ReorderSibling ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if next != tr {
					t.Error("rejected mutation returned a new snapshot")
				}
				return
			}
			if got := next.Children("a"); !slices.Equal(got, tt.want) {
				t.Errorf("Children(a) = %v, want %v", got, tt.want)
			}
			if err := next.Validate(); err != nil {
				t.Errorf("mutated tree invalid: %v", err)
			}
		})
	}
}

func TestReorderSiblingOnlyTouchesOneList(t *testing.T) {
	tr := buildTree(t)
	next, ok := tr.ReorderSibling("a2", "a1", true)
	if !ok {
		t.Fatal("ReorderSibling rejected")
	}

	// Sibling order at the root and all parent references are untouched.
	if got := next.Children("r"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Children(r) = %v, want [a b]", got)
	}
	for _, id := range []string{"a", "a1", "a2", "b"} {
		was, _ := tr.Node(id)
		now, _ := next.Node(id)
		if was.ParentID != now.ParentID {
			t.Errorf("node %s parent changed: %s -> %s", id, was.ParentID, now.ParentID)
		}
	}
	if got := tr.Children("a"); !slices.Equal(got, []string{"a1", "a2"}) {
		t.Errorf("receiver children changed: %v", got)
	}
}

func TestMoveBy(t *testing.T) {
	tr := buildTree(t)
	withHint, _ := tr.MoveBy([]string{"a"}, 5, -3)

	tests := []struct {
		name   string
		tree   *Tree
		ids    []string
		dx, dy float64
		wantOK bool
		want   map[string]Point
	}{
		{
			"fresh hint from origin",
			tr, []string{"b"}, 10, 20, true,
			map[string]Point{"b": {X: 10, Y: 20}},
		},
		{
			"accumulates onto existing hint",
			withHint, []string{"a"}, 1, 1, true,
			map[string]Point{"a": {X: 6, Y: -2}},
		},
		{
			"batch moves rigidly",
			tr, []string{"a", "b"}, 7, 0, true,
			map[string]Point{"a": {X: 7, Y: 0}, "b": {X: 7, Y: 0}},
		},
		{
			"unknown ids skipped",
			tr, []string{"ghost", "b"}, 1, 2, true,
			map[string]Point{"b": {X: 1, Y: 2}},
		},
		{
			"nothing moved",
			tr, []string{"ghost"}, 1, 2, false, nil,
		},
		{
			"empty selection",
			tr, nil, 1, 2, false, nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := tt.tree.MoveBy(tt.ids, tt.dx, tt.dy)
			if ok != tt.wantOK {
				t.Fatalf("MoveBy ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if next != tt.tree {
					t.Error("rejected mutation returned a new snapshot")
				}
				return
			}
			for id, want := range tt.want {
				n, _ := next.Node(id)
				if n.PositionHint == nil || *n.PositionHint != want {
					t.Errorf("node %s hint = %v, want %v", id, n.PositionHint, want)
				}
			}
		})
	}
}

func TestMoveByLeavesReceiverUnchanged(t *testing.T) {
	tr := buildTree(t)
	if _, ok := tr.MoveBy([]string{"a"}, 5, 5); !ok {
		t.Fatal("MoveBy rejected")
	}
	n, _ := tr.Node("a")
	if n.PositionHint != nil {
		t.Errorf("receiver hint = %v, want nil", n.PositionHint)
	}
}

// snapshot captures parent links and children lists for change detection.
func snapshot(tr *Tree) map[string][]string {
	out := make(map[string][]string)
	for _, id := range tr.IDs() {
		n, _ := tr.Node(id)
		out[id] = append([]string{n.ParentID}, n.Children...)
	}
	return out
}

func diffSnapshot(a, b map[string][]string) string {
	for id, was := range a {
		if !slices.Equal(was, b[id]) {
			return "node " + id
		}
	}
	if len(a) != len(b) {
		return "node count"
	}
	return ""
}
