// Package drag implements the pointer-drag state machine for the map
// editor: hit-testing against the current layout, drop-zone
// classification, and the translation of a finished gesture into exactly
// one tree mutation.
//
// The package owns no rendering and no event plumbing. The host feeds it
// pointer samples already converted to layout space and draws ghost and
// highlight affordances from the returned [State]. One session exists per
// gesture; invalid drops resolve to no-ops (the node snaps back on the
// next layout pass), never to errors.
package drag

import (
	"math"

	"github.com/mindwell/mindgrid/pkg/layout"
	"github.com/mindwell/mindgrid/pkg/tree"
)

// Mode selects what a gesture does on completion.
type Mode int

const (
	// ModeFree moves the dragged selection by the pointer offset without
	// changing any parent/child relationship.
	ModeFree Mode = iota
	// ModeReparent seeks a drop target and reparents or reorders on drop.
	ModeReparent
)

// Zone classifies where inside the candidate target the pointer sits.
type Zone int

const (
	ZoneNone   Zone = iota // no valid candidate under the pointer
	ZoneBefore             // top band: insert before the target sibling
	ZoneAfter              // bottom band: insert after the target sibling
	ZoneCenter             // middle band: become a child of the target
)

// Fractions of a sibling target's box height forming the before/after
// bands. The middle half always means "reparent as child", even between
// siblings.
const (
	beforeBand = 0.25
	afterBand  = 0.25
)

// Config carries the geometry the engine needs beside the layout output.
type Config struct {
	// NodeWidth is the box width, matching the layout config.
	NodeWidth float64
	// HitSlop expands every box on all sides during hit-testing, so narrow
	// gaps between nodes still register.
	HitSlop float64
}

// State is the render-facing snapshot of a session after a transition.
// The host draws affordances from it without touching session internals.
type State struct {
	Mode        Mode
	DraggedIDs  []string
	Pointer     tree.Point
	CandidateID string // empty when no valid target is under the pointer
	Zone        Zone
}

// ResultKind says which mutation a finished gesture produced.
type ResultKind int

const (
	ResultNone     ResultKind = iota // gesture resolved to a no-op
	ResultMove                       // free move applied via MoveBy
	ResultReparent                   // dragged node became a child of the target
	ResultReorder                    // dragged node reordered among siblings
)

// Result is the outcome of [Session.Stop]. Tree is always usable: the
// mutated snapshot on success, the unchanged input otherwise.
type Result struct {
	Kind     ResultKind
	Tree     *tree.Tree
	TargetID string
	Before   bool // meaningful for ResultReorder
}

// Session is the ephemeral per-gesture state. Create one with [Start],
// feed it [Session.Move] samples, finish with [Session.Stop]. A session
// must not outlive the layout it was started against.
type Session struct {
	t           *tree.Tree
	index       map[string]layout.Positioned
	cfg         Config
	mode        Mode
	dragged     []string
	primary     string
	descendants map[string]bool
	start       tree.Point
	pointer     tree.Point
	origins     map[string]tree.Point
	candidate   string
	zone        Zone
	done        bool
}

// Start opens a drag session for the node under the pointer. When the
// active selection contains the node, the whole selection is dragged as a
// rigid batch; otherwise only the node itself. The descendant set of every
// dragged node is precomputed here and excluded from all later
// hit-testing, which is the engine's sole cycle-prevention mechanism.
//
// ok is false when the node is not part of the current layout; no session
// exists then.
func Start(t *tree.Tree, nodes []layout.Positioned, cfg Config, id string, selection []string, mode Mode, at tree.Point) (*Session, State, bool) {
	index := layout.Index(nodes)
	if _, ok := index[id]; !ok {
		return nil, State{}, false
	}

	dragged := []string{id}
	for _, sel := range selection {
		if sel == id {
			dragged = append([]string{}, selection...)
			break
		}
	}

	descendants := make(map[string]bool)
	origins := make(map[string]tree.Point, len(dragged))
	for _, d := range dragged {
		for desc := range t.Descendants(d) {
			descendants[desc] = true
		}
		if p, ok := index[d]; ok {
			origins[d] = tree.Point{X: p.X, Y: p.Y}
		}
	}

	s := &Session{
		t:           t,
		index:       index,
		cfg:         cfg,
		mode:        mode,
		dragged:     dragged,
		primary:     id,
		descendants: descendants,
		start:       at,
		pointer:     at,
		origins:     origins,
	}
	if mode == ModeReparent {
		s.candidate, s.zone = s.hitTest(at)
	}
	return s, s.state(), true
}

// Move advances the session to a new pointer sample. Free mode only
// tracks the cursor; reparent mode re-runs hit-testing and drop-zone
// classification.
func (s *Session) Move(at tree.Point) State {
	if s.done {
		return s.state()
	}
	s.pointer = at
	if s.mode == ModeReparent {
		s.candidate, s.zone = s.hitTest(at)
	}
	return s.state()
}

// Stop finishes the gesture and applies at most one mutation. The session
// is spent afterwards; further calls are no-ops returning the unchanged
// tree.
func (s *Session) Stop(at tree.Point) Result {
	if s.done {
		return Result{Kind: ResultNone, Tree: s.t}
	}
	s.done = true
	s.pointer = at

	if s.mode == ModeFree {
		dx, dy := at.X-s.start.X, at.Y-s.start.Y
		if moved, ok := s.t.MoveBy(s.dragged, dx, dy); ok {
			return Result{Kind: ResultMove, Tree: moved}
		}
		return Result{Kind: ResultNone, Tree: s.t}
	}

	target, zone := s.hitTest(at)
	if target == "" {
		return Result{Kind: ResultNone, Tree: s.t}
	}

	switch zone {
	case ZoneBefore, ZoneAfter:
		before := zone == ZoneBefore
		if next, ok := s.t.ReorderSibling(s.primary, target, before); ok {
			return Result{Kind: ResultReorder, Tree: next, TargetID: target, Before: before}
		}
	case ZoneCenter:
		if next, ok := s.t.Reparent(s.primary, target); ok {
			return Result{Kind: ResultReparent, Tree: next, TargetID: target}
		}
	}
	return Result{Kind: ResultNone, Tree: s.t}
}

// Origin returns the layout position a dragged node had when the session
// started, for ghost rendering. ok is false for nodes not in the drag set.
func (s *Session) Origin(id string) (tree.Point, bool) {
	p, ok := s.origins[id]
	return p, ok
}

func (s *Session) state() State {
	return State{
		Mode:        s.mode,
		DraggedIDs:  s.dragged,
		Pointer:     s.pointer,
		CandidateID: s.candidate,
		Zone:        s.zone,
	}
}

// hitTest finds the best drop target under the pointer: among all boxes
// (expanded by HitSlop) containing the point, the one with the nearest
// center wins. The dragged nodes and their descendants never qualify.
func (s *Session) hitTest(at tree.Point) (string, Zone) {
	bestID := ""
	bestDist := math.Inf(1)
	var bestBox box

	for id, p := range s.index {
		if s.isDragged(id) || s.descendants[id] {
			continue
		}
		b := nodeBox(p, s.cfg.NodeWidth)
		if !b.expand(s.cfg.HitSlop).contains(at) {
			continue
		}
		cx, cy := b.center()
		d := math.Hypot(at.X-cx, at.Y-cy)
		if d < bestDist {
			bestID, bestDist, bestBox = id, d, b
		}
	}
	if bestID == "" {
		return "", ZoneNone
	}
	return bestID, s.classify(bestID, bestBox, at)
}

// classify splits a sibling target's box into before/child/after bands.
// Targets that are not siblings of the dragged node always mean "reparent
// as child".
func (s *Session) classify(targetID string, b box, at tree.Point) Zone {
	if !s.sameParent(targetID) {
		return ZoneCenter
	}
	switch {
	case at.Y < b.top+b.height()*beforeBand:
		return ZoneBefore
	case at.Y > b.bottom-b.height()*afterBand:
		return ZoneAfter
	default:
		return ZoneCenter
	}
}

func (s *Session) sameParent(targetID string) bool {
	a, ok1 := s.t.Node(s.primary)
	b, ok2 := s.t.Node(targetID)
	return ok1 && ok2 && a.ParentID != "" && a.ParentID == b.ParentID
}

func (s *Session) isDragged(id string) bool {
	for _, d := range s.dragged {
		if d == id {
			return true
		}
	}
	return false
}
