package drag

import (
	"slices"
	"testing"

	"github.com/mindwell/mindgrid/pkg/layout"
	"github.com/mindwell/mindgrid/pkg/tree"
)

// fixture lays out this map with fixed 40-unit node heights:
//
//	r ── a ── a1
//	  └─ b
//
// Both root children carry a positive hint so they stack on the right
// rail at x∈[120,220]: a-subtree band on top, b below.
func fixture(t *testing.T) (*tree.Tree, []layout.Positioned, Config) {
	t.Helper()
	tr := tree.New(tree.Node{ID: "r"})
	for _, n := range []tree.Node{
		{ID: "a", ParentID: "r", PositionHint: &tree.Point{X: 1}},
		{ID: "a1", ParentID: "a"},
		{ID: "b", ParentID: "r", PositionHint: &tree.Point{X: 1}},
	} {
		if err := tr.Add(n); err != nil {
			t.Fatalf("Add(%s): %v", n.ID, err)
		}
	}
	lcfg := layout.Config{NodeWidth: 100, HGap: 20, ChildGap: 10, LineHeight: 18, CharWidth: 7.2, FixedHeight: 40}
	nodes := layout.Layout(tr, lcfg)
	return tr, nodes, Config{NodeWidth: 100, HitSlop: 4}
}

// centerOf returns the midpoint of a node's box.
func centerOf(t *testing.T, nodes []layout.Positioned, cfg Config, id string) tree.Point {
	t.Helper()
	p, ok := layout.Index(nodes)[id]
	if !ok {
		t.Fatalf("node %s not positioned", id)
	}
	b := nodeBox(p, cfg.NodeWidth)
	x, y := b.center()
	return tree.Point{X: x, Y: y}
}

func TestStartUnknownNode(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	if _, _, ok := Start(tr, nodes, cfg, "ghost", nil, ModeFree, tree.Point{}); ok {
		t.Error("Start accepted a node missing from the layout")
	}
}

func TestFreeMoveAppliesPointerDelta(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	at := centerOf(t, nodes, cfg, "b")

	s, st, ok := Start(tr, nodes, cfg, "b", nil, ModeFree, at)
	if !ok {
		t.Fatal("Start failed")
	}
	if !slices.Equal(st.DraggedIDs, []string{"b"}) {
		t.Fatalf("DraggedIDs = %v, want [b]", st.DraggedIDs)
	}

	s.Move(tree.Point{X: at.X + 3, Y: at.Y})
	res := s.Stop(tree.Point{X: at.X + 10, Y: at.Y - 5})

	if res.Kind != ResultMove {
		t.Fatalf("Kind = %v, want ResultMove", res.Kind)
	}
	moved, _ := res.Tree.Node("b")
	// Prior hint was (1,0); the delta accumulates onto it.
	if moved.PositionHint == nil || *moved.PositionHint != (tree.Point{X: 11, Y: -5}) {
		t.Errorf("hint = %v, want {11 -5}", moved.PositionHint)
	}
	// Input tree untouched.
	orig, _ := tr.Node("b")
	if *orig.PositionHint != (tree.Point{X: 1, Y: 0}) {
		t.Errorf("input tree hint changed: %v", orig.PositionHint)
	}
}

func TestFreeMoveDragsWholeSelection(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	at := centerOf(t, nodes, cfg, "a")

	s, st, ok := Start(tr, nodes, cfg, "a", []string{"a", "b"}, ModeFree, at)
	if !ok {
		t.Fatal("Start failed")
	}
	if !slices.Equal(st.DraggedIDs, []string{"a", "b"}) {
		t.Fatalf("DraggedIDs = %v, want the full selection", st.DraggedIDs)
	}

	res := s.Stop(tree.Point{X: at.X + 6, Y: at.Y + 6})
	if res.Kind != ResultMove {
		t.Fatalf("Kind = %v, want ResultMove", res.Kind)
	}
	for _, id := range []string{"a", "b"} {
		n, _ := res.Tree.Node(id)
		if n.PositionHint == nil || *n.PositionHint != (tree.Point{X: 7, Y: 6}) {
			t.Errorf("node %s hint = %v, want {7 6}", id, n.PositionHint)
		}
	}
}

func TestSelectionWithoutGrabbedNodeIsIgnored(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	at := centerOf(t, nodes, cfg, "b")

	_, st, ok := Start(tr, nodes, cfg, "b", []string{"a"}, ModeFree, at)
	if !ok {
		t.Fatal("Start failed")
	}
	if !slices.Equal(st.DraggedIDs, []string{"b"}) {
		t.Errorf("DraggedIDs = %v, want [b] only", st.DraggedIDs)
	}
}

func TestReparentOnCenterDrop(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	start := centerOf(t, nodes, cfg, "a1")
	target := centerOf(t, nodes, cfg, "b")

	s, _, ok := Start(tr, nodes, cfg, "a1", nil, ModeReparent, start)
	if !ok {
		t.Fatal("Start failed")
	}
	st := s.Move(target)
	// a1 and b have different parents, so any band means reparent.
	if st.CandidateID != "b" || st.Zone != ZoneCenter {
		t.Fatalf("state = %+v, want candidate b ZoneCenter", st)
	}

	res := s.Stop(target)
	if res.Kind != ResultReparent || res.TargetID != "b" {
		t.Fatalf("result = %+v, want reparent onto b", res)
	}
	moved, _ := res.Tree.Node("a1")
	if moved.ParentID != "b" {
		t.Errorf("ParentID = %s, want b", moved.ParentID)
	}
	if err := res.Tree.Validate(); err != nil {
		t.Errorf("mutated tree invalid: %v", err)
	}
}

func TestReorderOnEdgeDrop(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	idx := layout.Index(nodes)
	b := nodeBox(idx["b"], cfg.NodeWidth)
	start := centerOf(t, nodes, cfg, "a")

	tests := []struct {
		name       string
		at         tree.Point
		wantZone   Zone
		wantBefore bool
		wantOrder  []string
	}{
		{
			"top band inserts before",
			tree.Point{X: (b.left + b.right) / 2, Y: b.top + b.height()*0.1},
			ZoneBefore, true, []string{"a", "b"},
		},
		{
			"bottom band inserts after",
			tree.Point{X: (b.left + b.right) / 2, Y: b.bottom - b.height()*0.1},
			ZoneAfter, false, []string{"b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, ok := Start(tr, nodes, cfg, "a", nil, ModeReparent, start)
			if !ok {
				t.Fatal("Start failed")
			}
			if st := s.Move(tt.at); st.Zone != tt.wantZone {
				t.Fatalf("Zone = %v, want %v", st.Zone, tt.wantZone)
			}
			res := s.Stop(tt.at)
			if res.Kind != ResultReorder || res.Before != tt.wantBefore {
				t.Fatalf("result = %+v, want reorder before=%v", res, tt.wantBefore)
			}
			if got := res.Tree.Children("r"); !slices.Equal(got, tt.wantOrder) {
				t.Errorf("Children(r) = %v, want %v", got, tt.wantOrder)
			}
		})
	}
}

func TestDescendantsNeverTargets(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	start := centerOf(t, nodes, cfg, "a")
	overChild := centerOf(t, nodes, cfg, "a1")

	s, _, ok := Start(tr, nodes, cfg, "a", nil, ModeReparent, start)
	if !ok {
		t.Fatal("Start failed")
	}
	st := s.Move(overChild)
	if st.CandidateID == "a1" || st.CandidateID == "a" {
		t.Fatalf("candidate = %s, dragged subtree must not qualify", st.CandidateID)
	}

	res := s.Stop(overChild)
	if res.Kind == ResultReparent && res.TargetID == "a1" {
		t.Error("dropped onto own descendant")
	}
	if err := res.Tree.Validate(); err != nil {
		t.Errorf("tree invalid after drop: %v", err)
	}
}

func TestDropOnCurrentParentIsNoop(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	start := centerOf(t, nodes, cfg, "a")
	overRoot := centerOf(t, nodes, cfg, "r")

	s, _, ok := Start(tr, nodes, cfg, "a", nil, ModeReparent, start)
	if !ok {
		t.Fatal("Start failed")
	}
	res := s.Stop(overRoot)
	if res.Kind != ResultNone {
		t.Fatalf("Kind = %v, want ResultNone for drop on current parent", res.Kind)
	}
	if res.Tree != tr {
		t.Error("no-op drop returned a new snapshot")
	}
}

func TestDropInEmptySpaceIsNoop(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	start := centerOf(t, nodes, cfg, "b")

	s, _, ok := Start(tr, nodes, cfg, "b", nil, ModeReparent, start)
	if !ok {
		t.Fatal("Start failed")
	}
	far := tree.Point{X: 10000, Y: 10000}
	if st := s.Move(far); st.CandidateID != "" || st.Zone != ZoneNone {
		t.Fatalf("state over empty space = %+v", st)
	}
	if res := s.Stop(far); res.Kind != ResultNone || res.Tree != tr {
		t.Errorf("result = %+v, want no-op", res)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	at := centerOf(t, nodes, cfg, "b")

	s, _, _ := Start(tr, nodes, cfg, "b", nil, ModeFree, at)
	first := s.Stop(tree.Point{X: at.X + 5, Y: at.Y})
	if first.Kind != ResultMove {
		t.Fatalf("first Stop = %v, want ResultMove", first.Kind)
	}
	second := s.Stop(tree.Point{X: at.X + 50, Y: at.Y})
	if second.Kind != ResultNone || second.Tree != tr {
		t.Errorf("second Stop = %+v, want no-op on the original tree", second)
	}
}

func TestOrigin(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	idx := layout.Index(nodes)
	at := centerOf(t, nodes, cfg, "b")

	s, _, _ := Start(tr, nodes, cfg, "b", nil, ModeFree, at)
	got, ok := s.Origin("b")
	if !ok || got != (tree.Point{X: idx["b"].X, Y: idx["b"].Y}) {
		t.Errorf("Origin(b) = %v %v, want layout position", got, ok)
	}
	if _, ok := s.Origin("a"); ok {
		t.Error("Origin returned a position for an undragged node")
	}
}

func TestHitSlopExtendsBoxes(t *testing.T) {
	tr, nodes, cfg := fixture(t)
	idx := layout.Index(nodes)
	b := nodeBox(idx["b"], cfg.NodeWidth)
	start := centerOf(t, nodes, cfg, "a1")

	s, _, ok := Start(tr, nodes, cfg, "a1", nil, ModeReparent, start)
	if !ok {
		t.Fatal("Start failed")
	}
	// Just outside the box but within the slop.
	just := tree.Point{X: b.right + cfg.HitSlop/2, Y: (b.top + b.bottom) / 2}
	if st := s.Move(just); st.CandidateID != "b" {
		t.Errorf("candidate = %q, want b within hit slop", st.CandidateID)
	}
	// Beyond the slop.
	beyond := tree.Point{X: b.right + cfg.HitSlop*3, Y: (b.top + b.bottom) / 2}
	if st := s.Move(beyond); st.CandidateID == "b" {
		t.Error("candidate found beyond the hit slop")
	}
}
