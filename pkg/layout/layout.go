package layout

import "github.com/mindwell/mindgrid/pkg/tree"

// Direction values for Positioned.Direction.
const (
	DirLeft  = -1 // branch grows toward negative x
	DirRoot  = 0  // the root itself
	DirRight = +1 // branch grows toward positive x
)

// Positioned is the derived, ephemeral placement of one node. X is the
// node's rail coordinate (the box grows NodeWidth toward its branch
// direction, centered for the root); Y is the top edge of the box, which
// extends OwnHeight downward. It is rebuilt on every layout pass and never
// persisted.
type Positioned struct {
	ID            string
	X, Y          float64
	OwnHeight     float64
	SubtreeHeight float64
	Direction     int
}

// Layout assigns a coordinate to every visible node, branching root-level
// children left and right and allocating non-overlapping vertical bands to
// sibling subtrees. The result is deterministic: repeated calls over an
// unchanged tree produce bit-identical output.
//
// Malformed input (nil tree, missing root, dangling references) yields an
// empty result rather than an error, so rendering degrades to "nothing to
// draw" on partially loaded documents.
func Layout(t *tree.Tree, cfg Config) []Positioned {
	if t == nil || t.Validate() != nil {
		return nil
	}

	m := ComputeMetrics(t, cfg)
	root, _ := t.Node(t.RootID())
	total := m.Subtree[root.ID]

	// The root band is centered on the origin.
	out := []Positioned{{
		ID:            root.ID,
		X:             0,
		Y:             -m.Own[root.ID] / 2,
		OwnHeight:     m.Own[root.ID],
		SubtreeHeight: total,
		Direction:     DirRoot,
	}}
	if root.Collapsed || len(root.Children) == 0 {
		return out
	}

	right, left := partitionRoot(t, root.Children)
	out = append(out, positionSide(t, m, cfg, right, DirRight)...)
	out = append(out, positionSide(t, m, cfg, left, DirLeft)...)
	return out
}

// Index builds an id→Positioned lookup from a layout result.
func Index(nodes []Positioned) map[string]Positioned {
	idx := make(map[string]Positioned, len(nodes))
	for _, p := range nodes {
		idx[p.ID] = p
	}
	return idx
}

// partitionRoot splits the root's children into the right and left
// branches. A child with a position hint goes to the side of the hint's x
// sign; hintless children fall back to the index rule (first half right,
// second half left). A lone child always goes right.
//
// The left slice is returned in reversed source order: stacked top to
// bottom it then mirrors the right side, so reading the layout clockwise
// from the top reproduces the source child order. Interoperating outline
// formats encode sibling order exactly this way, and round-trip fidelity
// depends on it.
func partitionRoot(t *tree.Tree, children []string) (right, left []string) {
	if len(children) == 1 {
		return children, nil
	}
	half := (len(children) + 1) / 2
	for i, c := range children {
		n, _ := t.Node(c)
		toRight := i < half
		if n.PositionHint != nil {
			toRight = n.PositionHint.X >= 0
		}
		if toRight {
			right = append(right, c)
		} else {
			left = append(left, c)
		}
	}
	for i, j := 0, len(left)-1; i < j; i, j = i+1, j-1 {
		left[i], left[j] = left[j], left[i]
	}
	return right, left
}

// positionSide stacks one root branch top to bottom, centered as a whole
// on the root's vertical center.
func positionSide(t *tree.Tree, m Metrics, cfg Config, side []string, dir int) []Positioned {
	if len(side) == 0 {
		return nil
	}
	total := 0.0
	for i, c := range side {
		total += m.Subtree[c]
		if i > 0 {
			total += cfg.ChildGap
		}
	}

	var out []Positioned
	cur := -total / 2
	for _, c := range side {
		out = append(out, positionSubtree(t, m, cfg, c, 1, dir, cur)...)
		cur += m.Subtree[c] + cfg.ChildGap
	}
	return out
}

// positionSubtree places the node centered in its band
// [bandStart, bandStart+subtree] and recurses into its visible children.
// Direction and band are final on entry, so no later pass needs to revisit
// a placed node.
func positionSubtree(t *tree.Tree, m Metrics, cfg Config, id string, level, dir int, bandStart float64) []Positioned {
	n, _ := t.Node(id)
	own := m.Own[id]
	sub := m.Subtree[id]
	center := bandStart + sub/2

	out := []Positioned{{
		ID:            id,
		X:             float64(dir) * float64(level) * (cfg.NodeWidth + cfg.HGap),
		Y:             center - own/2,
		OwnHeight:     own,
		SubtreeHeight: sub,
		Direction:     dir,
	}}
	if n.Collapsed || len(n.Children) == 0 {
		return out
	}

	if len(n.Children) == 1 {
		// Align the child's center with the parent's, clamped so the child
		// band cannot leave the parent's band and overlap a sibling region.
		c := n.Children[0]
		childSub := m.Subtree[c]
		childStart := center - childSub/2
		childStart = max(childStart, bandStart)
		childStart = min(childStart, bandStart+sub-childSub)
		return append(out, positionSubtree(t, m, cfg, c, level+1, dir, childStart)...)
	}

	childrenTotal := 0.0
	for i, c := range n.Children {
		childrenTotal += m.Subtree[c]
		if i > 0 {
			childrenTotal += cfg.ChildGap
		}
	}
	cur := bandStart + (sub-childrenTotal)/2
	for _, c := range n.Children {
		out = append(out, positionSubtree(t, m, cfg, c, level+1, dir, cur)...)
		cur += m.Subtree[c] + cfg.ChildGap
	}
	return out
}
