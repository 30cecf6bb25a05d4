package mapdoc

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mindwell/mindgrid/pkg/tree"
)

func buildTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.New(tree.Node{ID: "r", Title: "Root"})
	for _, n := range []tree.Node{
		{ID: "a", ParentID: "r", Title: "Alpha", PositionHint: &tree.Point{X: -12, Y: 3}},
		{ID: "a1", ParentID: "a", Title: "Alpha One", Collapsed: true},
		{ID: "a2", ParentID: "a", Style: tree.Style{Width: 220}},
		{ID: "b", ParentID: "r", Title: "Beta"},
	} {
		if err := tr.Add(n); err != nil {
			t.Fatalf("Add(%s): %v", n.ID, err)
		}
	}
	return tr
}

func TestRoundTrip(t *testing.T) {
	tr := buildTree(t)
	data, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}

	got, err := Read(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}

	if got.RootID() != "r" || got.Len() != tr.Len() {
		t.Fatalf("round trip root=%s len=%d, want r/%d", got.RootID(), got.Len(), tr.Len())
	}
	for _, id := range tr.IDs() {
		want, _ := tr.Node(id)
		have, ok := got.Node(id)
		if !ok {
			t.Fatalf("node %s lost in round trip", id)
		}
		if have.ParentID != want.ParentID || have.Title != want.Title ||
			have.Collapsed != want.Collapsed || have.Style.Width != want.Style.Width {
			t.Errorf("node %s = %+v, want %+v", id, have, want)
		}
		if !slices.Equal(have.Children, want.Children) {
			t.Errorf("node %s children = %v, want %v", id, have.Children, want.Children)
		}
		switch {
		case want.PositionHint == nil:
			if have.PositionHint != nil {
				t.Errorf("node %s gained a hint: %v", id, have.PositionHint)
			}
		case have.PositionHint == nil || *have.PositionHint != *want.PositionHint:
			t.Errorf("node %s hint = %v, want %v", id, have.PositionHint, want.PositionHint)
		}
	}
}

func TestFromTreeDepthFirstOrder(t *testing.T) {
	doc := FromTree(buildTree(t))
	var ids []string
	for _, n := range doc.Nodes {
		ids = append(ids, n.ID)
	}
	want := []string{"r", "a", "a1", "a2", "b"}
	if !slices.Equal(ids, want) {
		t.Errorf("document order = %v, want %v", ids, want)
	}
}

func TestToTreeSiblingOrderFromChildrenLists(t *testing.T) {
	// Document order disagrees with the children list; the list wins.
	doc := Document{
		Root: "r",
		Nodes: []Node{
			{ID: "r", Children: []string{"b", "a"}},
			{ID: "a", Parent: "r"},
			{ID: "b", Parent: "r"},
		},
	}
	tr, err := ToTree(doc)
	if err != nil {
		t.Fatalf("ToTree() = %v", err)
	}
	if got := tr.Children("r"); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Children(r) = %v, want [b a]", got)
	}
}

func TestToTreeParentOnlyDocument(t *testing.T) {
	// Minimal hand-written file: parent links, no children lists.
	doc := Document{
		Root: "r",
		Nodes: []Node{
			{ID: "r"},
			{ID: "x", Parent: "r"},
			{ID: "y", Parent: "r"},
			{ID: "x1", Parent: "x"},
		},
	}
	tr, err := ToTree(doc)
	if err != nil {
		t.Fatalf("ToTree() = %v", err)
	}
	if got := tr.Children("r"); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("Children(r) = %v, want document order [x y]", got)
	}
	if got := tr.Children("x"); !slices.Equal(got, []string{"x1"}) {
		t.Errorf("Children(x) = %v, want [x1]", got)
	}
}

func TestToTreeAssignsMissingIDs(t *testing.T) {
	doc := Document{
		Root: "r",
		Nodes: []Node{
			{ID: "r"},
			{Parent: "r", Title: "anonymous"},
		},
	}
	tr, err := ToTree(doc)
	if err != nil {
		t.Fatalf("ToTree() = %v", err)
	}
	kids := tr.Children("r")
	if len(kids) != 1 || kids[0] == "" {
		t.Fatalf("Children(r) = %v, want one generated id", kids)
	}
	n, _ := tr.Node(kids[0])
	if n.Title != "anonymous" {
		t.Errorf("generated node title = %q", n.Title)
	}
}

func TestToTreeErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{
			"no root",
			Document{Nodes: []Node{{ID: "a"}}},
			tree.ErrNoRoot,
		},
		{
			"root not in nodes",
			Document{Root: "r", Nodes: []Node{{ID: "a"}}},
			tree.ErrNoRoot,
		},
		{
			"duplicate id",
			Document{Root: "r", Nodes: []Node{{ID: "r"}, {ID: "a", Parent: "r"}, {ID: "a", Parent: "r"}}},
			tree.ErrDuplicateNodeID,
		},
		{
			"dangling child",
			Document{Root: "r", Nodes: []Node{{ID: "r", Children: []string{"ghost"}}}},
			tree.ErrDanglingChild,
		},
		{
			"dangling parent",
			Document{Root: "r", Nodes: []Node{{ID: "r"}, {ID: "a", Parent: "ghost"}}},
			tree.ErrDanglingParent,
		},
		{
			"detached cycle",
			Document{Root: "r", Nodes: []Node{
				{ID: "r"},
				{ID: "x", Parent: "y"},
				{ID: "y", Parent: "x"},
			}},
			tree.ErrCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToTree(tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ToTree() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json")); err == nil {
		t.Error("Read() accepted malformed JSON")
	}
}

func TestWriteReadFile(t *testing.T) {
	tr := buildTree(t)
	path := t.TempDir() + "/map.json"
	if err := WriteFile(tr, path); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}
	if got.Len() != tr.Len() {
		t.Errorf("file round trip len = %d, want %d", got.Len(), tr.Len())
	}
}
