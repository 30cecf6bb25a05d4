package layout

import (
	"strings"

	"github.com/mindwell/mindgrid/pkg/tree"
)

// Metrics holds the measured heights of every visible node: Own is the
// height of the node's box alone, Subtree the vertical extent of the node
// together with its visible descendants. Children of collapsed nodes are
// not measured and do not appear in either map.
type Metrics struct {
	Own     map[string]float64
	Subtree map[string]float64
}

// ComputeMetrics measures every visible node in one post-order traversal.
// The result depends only on the tree and the config, never on previous
// layout passes.
func ComputeMetrics(t *tree.Tree, cfg Config) Metrics {
	m := Metrics{
		Own:     make(map[string]float64, t.Len()),
		Subtree: make(map[string]float64, t.Len()),
	}
	m.measure(t, cfg, t.RootID())
	return m
}

func (m Metrics) measure(t *tree.Tree, cfg Config, id string) float64 {
	n, ok := t.Node(id)
	if !ok {
		return 0
	}

	own := ownHeight(n, cfg)
	m.Own[id] = own

	if n.Collapsed || len(n.Children) == 0 {
		m.Subtree[id] = own
		return own
	}

	total := 0.0
	for i, c := range n.Children {
		total += m.measure(t, cfg, c)
		if i > 0 {
			total += cfg.ChildGap
		}
	}
	// A node is never shorter than its own label.
	sub := max(own, total)
	m.Subtree[id] = sub
	return sub
}

// ownHeight estimates the box height from the title's wrapped line count.
// The estimate is a greedy word wrap over average character widths; it
// intentionally avoids real font metrics so results are identical on every
// platform.
func ownHeight(n *tree.Node, cfg Config) float64 {
	if cfg.FixedHeight > 0 {
		return cfg.FixedHeight
	}

	width := cfg.NodeWidth
	if n.Style.Width > 0 {
		width = n.Style.Width
	}
	wrapWidth := width - 2*cfg.HPadding
	perLine := int(wrapWidth / cfg.CharWidth)
	if perLine < 1 {
		perLine = 1
	}

	lines := wrapLines(n.Title, perLine)
	return float64(lines)*cfg.LineHeight + 2*cfg.VPadding
}

// wrapLines counts the lines a greedy word wrap would produce with the
// given per-line character budget. Words longer than the budget overflow
// onto lines of their own rather than being split.
func wrapLines(text string, perLine int) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 1
	}

	lines := 1
	used := 0
	for _, w := range words {
		need := len([]rune(w))
		if used == 0 {
			used = need
			continue
		}
		if used+1+need <= perLine {
			used += 1 + need
			continue
		}
		lines++
		used = need
	}
	return lines
}
