// Package pager implements the two-page swipe navigation: page selection,
// live drag tracking and the swipe/snap-back decision on release.
package pager

import (
	"math"
)

const (
	// PageOverview shows today's totals and entries.
	PageOverview = 0
	// PageAdd holds the add-drink form.
	PageAdd = 1
	// PageCount is the number of pages in the track.
	PageCount = 2

	// SwipeThreshold is the horizontal travel in px that switches pages.
	SwipeThreshold = 45.0
	// VerticalSlop is the vertical travel in px after which a mostly
	// vertical gesture is handed back to scrolling.
	VerticalSlop = 10.0
)

// Point is a touch position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is what the view needs to draw the track after an operation.
type Frame struct {
	Page int `json:"page"`
	// OffsetPct is the track's translateX in percent of the viewport width.
	OffsetPct float64 `json:"offsetPct"`
	// Animated is false while a drag follows the finger.
	Animated bool `json:"animated"`
	// Dots marks the active page indicator.
	Dots [PageCount]bool `json:"dots"`
	// PreventDefault asks the client to suppress native scrolling for this move.
	PreventDefault bool `json:"preventDefault"`
}

// Pager holds the UI state of one view. The zero value is not ready; use New.
type Pager struct {
	current  int
	dragging bool
	animated bool
	startX   float64
	startY   float64
	moved    float64
}

// New returns a pager resting on the overview page.
func New() *Pager {
	return &Pager{current: PageOverview, animated: true}
}

// Current returns the active page index.
func (p *Pager) Current() int { return p.current }

// Dragging reports whether a horizontal drag is being tracked.
func (p *Pager) Dragging() bool { return p.dragging }

// SetPage moves to idx, clamped to the available pages.
func (p *Pager) SetPage(idx int) Frame {
	p.current = clampPage(idx)
	return p.frame(baseOffset(p.current), false)
}

// TouchStart begins tracking a drag. Anything but exactly one touch is ignored.
func (p *Pager) TouchStart(touches []Point) Frame {
	if len(touches) != 1 {
		return p.frame(baseOffset(p.current), false)
	}
	p.dragging = true
	p.startX = touches[0].X
	p.startY = touches[0].Y
	p.moved = 0
	p.animated = false
	return p.frame(baseOffset(p.current), false)
}

// TouchMove follows the finger. A mostly vertical move past the slop
// cancels the drag and leaves the page where it was.
func (p *Pager) TouchMove(touches []Point, viewportWidth float64) Frame {
	if !p.dragging || len(touches) == 0 {
		return p.frame(baseOffset(p.current), false)
	}

	dx := touches[0].X - p.startX
	dy := touches[0].Y - p.startY

	if math.Abs(dy) > math.Abs(dx) && math.Abs(dy) > VerticalSlop {
		p.animated = true
		p.dragging = false
		return p.frame(baseOffset(p.current), false)
	}

	p.moved = dx
	if viewportWidth <= 0 {
		viewportWidth = 1
	}
	deltaPct := dx / viewportWidth * 100
	return p.frame(baseOffset(p.current)+deltaPct, true)
}

// TouchEnd finishes a drag: far enough left goes to the next page, far
// enough right to the previous one, anything else snaps back.
func (p *Pager) TouchEnd() Frame {
	if !p.dragging {
		return p.frame(baseOffset(p.current), false)
	}
	p.dragging = false
	p.animated = true

	switch {
	case p.moved <= -SwipeThreshold:
		return p.SetPage(p.current + 1)
	case p.moved >= SwipeThreshold:
		return p.SetPage(p.current - 1)
	default:
		return p.SetPage(p.current)
	}
}

func (p *Pager) frame(offset float64, preventDefault bool) Frame {
	f := Frame{
		Page:           p.current,
		OffsetPct:      offset,
		Animated:       p.animated,
		PreventDefault: preventDefault,
	}
	f.Dots[p.current] = true
	return f
}

func baseOffset(page int) float64 {
	return -100 * float64(page)
}

func clampPage(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx > PageCount-1 {
		return PageCount - 1
	}
	return idx
}
