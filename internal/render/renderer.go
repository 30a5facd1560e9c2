package render

import (
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// Renderer draws segments onto a surface.
type Renderer struct {
	surface *Surface
}

// NewRenderer returns a renderer for s.
func NewRenderer(s *Surface) *Renderer {
	return &Renderer{surface: s}
}

// Surface returns the surface the renderer draws on.
func (r *Renderer) Surface() *Surface {
	return r.surface
}

// RenderSegment draws seg with its own color and tool, scaled to the
// surface's current size, then restores the paint settings that were
// active before the call.
func (r *Renderer) RenderSegment(seg board.Segment) error {
	s := r.surface
	saved := s.paint
	defer s.SetPaint(saved)

	d := s.Dimensions()
	s.SetPaint(PaintFor(seg.Tool, seg.Color))
	return s.stroke(board.Denormalize(seg.From(), d), board.Denormalize(seg.To(), d))
}

// RenderSegmentWith draws seg and leaves active as the surface's paint
// settings, whatever they were before.
func (r *Renderer) RenderSegmentWith(seg board.Segment, active PaintState) error {
	err := r.RenderSegment(seg)
	r.surface.SetPaint(active)
	return err
}

// Clear wipes the whole surface. Clearing twice is the same as once.
func (r *Renderer) Clear() {
	r.surface.clear()
}
