package board

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when a surface has a non-positive side.
var ErrInvalidDimensions = errors.New("invalid surface dimensions")

// Point is a position either in surface pixels or in the unit square,
// depending on where it came from.
type Point struct {
	X float64
	Y float64
}

// Dimensions is the pixel size of a drawing surface.
type Dimensions struct {
	Width  int
	Height int
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Normalize converts a pixel position into a fraction of the surface size.
// The result is clamped to [0,1] so a pointer sampled just outside the
// surface still produces a valid segment.
func Normalize(p Point, d Dimensions) (Point, error) {
	if !d.Valid() {
		return Point{}, fmt.Errorf("normalize %v: %w", d, ErrInvalidDimensions)
	}
	return Point{
		X: clamp01(p.X / float64(d.Width)),
		Y: clamp01(p.Y / float64(d.Height)),
	}, nil
}

// Denormalize scales a unit-square position by the receiver's own surface
// size. This is what keeps peers with different viewports consistent.
func Denormalize(p Point, d Dimensions) Point {
	return Point{
		X: p.X * float64(d.Width),
		Y: p.Y * float64(d.Height),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
