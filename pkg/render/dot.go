package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mindwell/mindgrid/pkg/tree"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed includes node IDs alongside titles in labels.
	// When false, only the title is shown.
	Detailed bool
}

// ToDOT converts a map tree to Graphviz DOT format. Left-to-right rank
// direction approximates the horizontal mind-map reading order; collapsed
// branches are rendered with dashed outlines and their children omitted.
//
// The resulting DOT string can be rasterized with [RenderDOTSVG] or
// [RenderDOTPNG].
func ToDOT(t *tree.Tree, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mindmap {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	if t == nil || t.RootID() == "" {
		buf.WriteString("}\n")
		return buf.String()
	}

	writeDOTSubtree(&buf, t, t.RootID(), opts)
	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTSubtree(buf *bytes.Buffer, t *tree.Tree, id string, opts DOTOptions) {
	node, ok := t.Node(id)
	if !ok {
		return
	}

	attrs := []string{fmt.Sprintf("label=%q", dotLabel(node, opts.Detailed))}
	if node.Collapsed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	fmt.Fprintf(buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))

	if node.Collapsed {
		return
	}
	for _, childID := range node.Children {
		fmt.Fprintf(buf, "  %q -> %q;\n", id, childID)
		writeDOTSubtree(buf, t, childID, opts)
	}
}

func dotLabel(n *tree.Node, detailed bool) string {
	label := n.Title
	if label == "" {
		label = n.ID
	}
	if detailed && label != n.ID {
		label += "\n" + n.ID
	}
	if n.Collapsed {
		label += " …"
	}
	return label
}

// RenderDOTSVG rasterizes a DOT graph to SVG using the embedded Graphviz
// engine.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderDOTPNG rasterizes a DOT graph to PNG using the embedded Graphviz
// engine.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
