package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/mindwell/mindgrid/pkg/layout"
	"github.com/mindwell/mindgrid/pkg/tree"
)

// SVGOption configures the SVG renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	padding    float64
	fontSize   float64
	cornerR    float64
	background string
}

// WithPadding sets the margin around the drawing, in pixels.
func WithPadding(p float64) SVGOption {
	return func(r *svgRenderer) { r.padding = p }
}

// WithFontSize sets the label font size, in pixels.
func WithFontSize(s float64) SVGOption {
	return func(r *svgRenderer) { r.fontSize = s }
}

// WithBackground sets the background fill color. The default is
// transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// svgBox is a node box in translated SVG coordinates.
type svgBox struct {
	id    string
	x, y  float64
	w, h  float64
	dir   int
	title string
}

// RenderSVG draws the positioned map as an SVG image. Node boxes keep the
// geometry the layout engine computed; connectors are cubic curves from
// each parent's outward edge to its child's inward edge.
func RenderSVG(t *tree.Tree, nodes []layout.Positioned, cfg layout.Config, opts ...SVGOption) []byte {
	r := svgRenderer{
		padding:  24,
		fontSize: 13,
		cornerR:  6,
	}
	for _, opt := range opts {
		opt(&r)
	}

	boxes := buildBoxes(t, nodes, cfg)
	if len(boxes) == 0 {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 0 0"/>` + "\n")
	}

	minX, minY, maxX, maxY := bounds(boxes)
	width := maxX - minX + 2*r.padding
	height := maxY - minY + 2*r.padding
	offX := r.padding - minX
	offY := r.padding - minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", width, height, r.background)
	}

	byID := make(map[string]svgBox, len(boxes))
	for _, b := range boxes {
		byID[b.id] = b
	}

	for _, b := range boxes {
		node, ok := t.Node(b.id)
		if !ok || node.ParentID == "" {
			continue
		}
		parent, ok := byID[node.ParentID]
		if !ok {
			continue
		}
		renderConnector(&buf, parent, b, offX, offY)
	}

	for _, b := range boxes {
		fill := "#ffffff"
		if b.dir == layout.DirRoot {
			fill = "#eef2ff"
		}
		fmt.Fprintf(&buf, `  <rect id="node-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="#334155" stroke-width="1.5"/>`+"\n",
			html.EscapeString(b.id), b.x+offX, b.y+offY, b.w, b.h, r.cornerR, fill)
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="%.1f" fill="#0f172a">%s</text>`+"\n",
			b.x+offX+b.w/2, b.y+offY+b.h/2, r.fontSize, html.EscapeString(b.title))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// buildBoxes resolves each positioned node to its on-canvas box, applying
// the direction-dependent anchoring of the X coordinate.
func buildBoxes(t *tree.Tree, nodes []layout.Positioned, cfg layout.Config) []svgBox {
	boxes := make([]svgBox, 0, len(nodes))
	for _, p := range nodes {
		node, ok := t.Node(p.ID)
		if !ok {
			continue
		}
		w := cfg.NodeWidth
		if node.Style.Width > 0 {
			w = node.Style.Width
		}

		var left float64
		switch p.Direction {
		case layout.DirLeft:
			left = p.X - w
		case layout.DirRoot:
			left = p.X - w/2
		default:
			left = p.X
		}

		boxes = append(boxes, svgBox{
			id:    p.ID,
			x:     left,
			y:     p.Y,
			w:     w,
			h:     p.OwnHeight,
			dir:   p.Direction,
			title: node.Title,
		})
	}
	return boxes
}

func bounds(boxes []svgBox) (minX, minY, maxX, maxY float64) {
	minX, minY = boxes[0].x, boxes[0].y
	maxX, maxY = boxes[0].x+boxes[0].w, boxes[0].y+boxes[0].h
	for _, b := range boxes[1:] {
		minX = min(minX, b.x)
		minY = min(minY, b.y)
		maxX = max(maxX, b.x+b.w)
		maxY = max(maxY, b.y+b.h)
	}
	return minX, minY, maxX, maxY
}

// renderConnector draws a cubic curve from the parent's outward edge to
// the child's inward edge. Which edges face each other depends on the
// child's direction.
func renderConnector(buf *bytes.Buffer, parent, child svgBox, offX, offY float64) {
	var x1, x2 float64
	if child.dir == layout.DirLeft {
		x1 = parent.x
		x2 = child.x + child.w
	} else {
		x1 = parent.x + parent.w
		x2 = child.x
	}
	y1 := parent.y + parent.h/2
	y2 := child.y + child.h/2

	midX := (x1 + x2) / 2
	fmt.Fprintf(buf, `  <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="#94a3b8" stroke-width="1.5"/>`+"\n",
		x1+offX, y1+offY, midX+offX, y1+offY, midX+offX, y2+offY, x2+offX, y2+offY)
}
