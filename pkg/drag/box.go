package drag

import (
	"github.com/mindwell/mindgrid/pkg/layout"
	"github.com/mindwell/mindgrid/pkg/tree"
)

// box is an axis-aligned bounding box in layout space.
type box struct {
	left, top     float64
	right, bottom float64
}

func (b box) height() float64 { return b.bottom - b.top }

func (b box) center() (x, y float64) {
	return (b.left + b.right) / 2, (b.top + b.bottom) / 2
}

func (b box) expand(by float64) box {
	return box{left: b.left - by, top: b.top - by, right: b.right + by, bottom: b.bottom + by}
}

func (b box) contains(p tree.Point) bool {
	return p.X >= b.left && p.X <= b.right && p.Y >= b.top && p.Y <= b.bottom
}

// nodeBox derives a node's bounding box from its rail position. The box
// grows toward the branch direction; the root box is centered on its rail.
func nodeBox(p layout.Positioned, width float64) box {
	left := p.X
	switch p.Direction {
	case layout.DirLeft:
		left = p.X - width
	case layout.DirRoot:
		left = p.X - width/2
	}
	return box{left: left, top: p.Y, right: left + width, bottom: p.Y + p.OwnHeight}
}
