// Package render rasterizes board segments onto a pixel surface.
package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// Composite is the compositing operation applied by a stroke.
type Composite int

const (
	// SourceOver paints the stroke color over existing content.
	SourceOver Composite = iota
	// DestinationOut removes existing content covered by the stroke.
	DestinationOut
)

func (c Composite) String() string {
	if c == DestinationOut {
		return "destination-out"
	}
	return "source-over"
}

// CompositeFor returns the compositing operation used by a tool.
func CompositeFor(t board.Tool) Composite {
	if t == board.ToolEraser {
		return DestinationOut
	}
	return SourceOver
}

// PaintState is the set of paint settings a surface currently strokes with.
type PaintState struct {
	Color     string
	Tool      board.Tool
	Width     float64
	Composite Composite
}

// PaintFor returns the paint settings for drawing with tool and color.
func PaintFor(t board.Tool, color string) PaintState {
	return PaintState{
		Color:     color,
		Tool:      t,
		Width:     t.Width(),
		Composite: CompositeFor(t),
	}
}

// Surface is a pixel buffer with the stroke settings of one participant.
// It is owned by a single event loop and is not safe for concurrent use.
type Surface struct {
	dc   *gg.Context
	mask *gg.Context // scratch target for eraser coverage

	paint PaintState
}

// NewSurface allocates a transparent surface with pen settings.
func NewSurface(d board.Dimensions) (*Surface, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("new surface %v: %w", d, board.ErrInvalidDimensions)
	}
	s := &Surface{
		dc:   gg.NewContext(d.Width, d.Height),
		mask: gg.NewContext(d.Width, d.Height),
	}
	for _, dc := range []*gg.Context{s.dc, s.mask} {
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
	}
	s.mask.SetStrokeBrush(gg.Solid(gg.Black))
	s.SetPaint(PaintFor(board.ToolPen, board.DefaultColor))
	return s, nil
}

// Dimensions returns the current pixel size.
func (s *Surface) Dimensions() board.Dimensions {
	return board.Dimensions{Width: s.dc.Width(), Height: s.dc.Height()}
}

// Resize changes the pixel size. Drawn pixels are never rescaled: a size
// change starts from a blank surface. The paint settings survive.
func (s *Surface) Resize(d board.Dimensions) error {
	if !d.Valid() {
		return fmt.Errorf("resize surface %v: %w", d, board.ErrInvalidDimensions)
	}
	if err := s.dc.Resize(d.Width, d.Height); err != nil {
		return err
	}
	if err := s.mask.Resize(d.Width, d.Height); err != nil {
		return err
	}
	s.SetPaint(s.paint)
	return nil
}

// SetPaint makes p the active stroke settings.
func (s *Surface) SetPaint(p PaintState) {
	s.paint = p
	s.dc.SetStrokeBrush(gg.SolidHex(p.Color))
	s.dc.SetLineWidth(p.Width)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.mask.SetLineWidth(p.Width)
}

// Paint reports the active stroke settings. Width is read back from the
// drawing context so callers observe what the next stroke will use.
func (s *Surface) Paint() PaintState {
	p := s.paint
	p.Width = s.dc.GetStroke().Width
	return p
}

// StrokeColor returns the brush color currently loaded in the context.
func (s *Surface) StrokeColor() gg.RGBA {
	if b, ok := s.dc.StrokeBrush().(gg.SolidBrush); ok {
		return b.Color
	}
	return gg.Transparent
}

// Pixel returns the color at (x, y).
func (s *Surface) Pixel(x, y int) gg.RGBA {
	return s.dc.ResizeTarget().GetPixel(x, y)
}

// Image returns a copy of the surface pixels.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// Close releases the drawing contexts.
func (s *Surface) Close() error {
	_ = s.mask.Close()
	return s.dc.Close()
}

// stroke draws a line between two pixel positions with the active paint.
func (s *Surface) stroke(from, to board.Point) error {
	if s.paint.Composite == DestinationOut {
		return s.erase(from, to)
	}
	s.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	return s.dc.Stroke()
}

// erase rasterizes the stroke into the scratch mask and scales every
// destination channel by the uncovered fraction. The pixmap is
// premultiplied, so color and alpha shrink together.
func (s *Surface) erase(from, to board.Point) error {
	s.mask.Clear()
	s.mask.DrawLine(from.X, from.Y, to.X, to.Y)
	if err := s.mask.Stroke(); err != nil {
		return err
	}

	dst := s.dc.ResizeTarget().Data()
	cov := s.mask.ResizeTarget().Data()
	for i := 3; i < len(dst) && i < len(cov); i += 4 {
		a := cov[i]
		if a == 0 {
			continue
		}
		keep := uint32(255 - a)
		for j := i - 3; j <= i; j++ {
			dst[j] = uint8((uint32(dst[j])*keep + 127) / 255)
		}
	}
	return nil
}

// clear wipes every pixel to transparent.
func (s *Surface) clear() {
	s.dc.Clear()
}
