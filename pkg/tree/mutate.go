package tree

import "slices"

// The three mutation commands below are total: instead of returning errors
// they report ok=false and hand back the receiver unchanged. Invalid inputs
// occur routinely while hovering drop targets during interaction, so they
// are not exceptional conditions.

// Reparent moves nodeID under newParentID, appending it to the new parent's
// children. The returned tree is a new snapshot; the receiver is unmodified.
//
// The operation is rejected (ok=false, tree unchanged) when:
//   - either ID is unknown,
//   - nodeID is the root,
//   - newParentID is nodeID itself or one of its descendants (cycle),
//   - newParentID is already the current parent.
func (t *Tree) Reparent(nodeID, newParentID string) (*Tree, bool) {
	n, ok := t.nodes[nodeID]
	if !ok {
		return t, false
	}
	if _, ok := t.nodes[newParentID]; !ok {
		return t, false
	}
	if nodeID == t.rootID || n.ParentID == newParentID {
		return t, false
	}
	if nodeID == newParentID || t.Descendants(nodeID)[newParentID] {
		return t, false
	}

	out := t.clone()
	oldParent := out.cloneNode(n.ParentID)
	oldParent.Children = slices.DeleteFunc(oldParent.Children, func(id string) bool { return id == nodeID })

	newParent := out.cloneNode(newParentID)
	newParent.Children = append(newParent.Children, nodeID)

	moved := out.cloneNode(nodeID)
	moved.ParentID = newParentID
	return out, true
}

// ReorderSibling moves nodeID immediately before or after targetID within
// their shared parent's children list. Only that one list changes; parent
// references and every other node are untouched.
//
// Rejected (ok=false, tree unchanged) when either ID is unknown, the two
// are the same node, or they do not share a parent.
func (t *Tree) ReorderSibling(nodeID, targetID string, before bool) (*Tree, bool) {
	n, ok := t.nodes[nodeID]
	if !ok || nodeID == targetID {
		return t, false
	}
	target, ok := t.nodes[targetID]
	if !ok || n.ParentID == "" || n.ParentID != target.ParentID {
		return t, false
	}

	out := t.clone()
	parent := out.cloneNode(n.ParentID)
	parent.Children = slices.DeleteFunc(parent.Children, func(id string) bool { return id == nodeID })

	at := slices.Index(parent.Children, targetID)
	if at < 0 {
		return t, false
	}
	if !before {
		at++
	}
	parent.Children = slices.Insert(parent.Children, at, nodeID)
	return out, true
}

// MoveBy applies one translation offset to the position hints of every
// listed node. It is the batch contract behind free-form drags: a
// multi-selection moves rigidly with a single offset, and descendants
// follow on the next layout pass without individual moves.
//
// Unknown IDs are skipped; ok=false is reported only when no node moved.
// Nodes without a prior hint start from the origin.
func (t *Tree) MoveBy(ids []string, dx, dy float64) (*Tree, bool) {
	out := t.clone()
	moved := false
	for _, id := range ids {
		if _, ok := out.nodes[id]; !ok {
			continue
		}
		n := out.cloneNode(id)
		prev := Point{}
		if n.PositionHint != nil {
			prev = *n.PositionHint
		}
		n.PositionHint = &Point{X: prev.X + dx, Y: prev.Y + dy}
		moved = true
	}
	if !moved {
		return t, false
	}
	return out, true
}
