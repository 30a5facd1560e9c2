// Package capture turns raw pointer events into normalized segments.
package capture

import (
	"log/slog"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// State is the stroke state of one pointer device.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Capture tracks one pointer through down, move and up/leave events.
type Capture struct {
	dims  board.Dimensions
	state State
	last  *board.Point // raw pixels, nil while idle
}

// New returns an idle capture for a surface of size d.
func New(d board.Dimensions) *Capture {
	return &Capture{dims: d}
}

// State returns the current stroke state.
func (c *Capture) State() State { return c.state }

// LastPosition returns the last raw pointer position of the active stroke.
func (c *Capture) LastPosition() (board.Point, bool) {
	if c.last == nil {
		return board.Point{}, false
	}
	return *c.last, true
}

// SetDimensions updates the surface size used for normalization. A stroke
// in progress keeps its last position.
func (c *Capture) SetDimensions(d board.Dimensions) {
	c.dims = d
}

// Down starts a stroke at the raw position p.
func (c *Capture) Down(p board.Point) {
	c.state = Drawing
	c.last = &p
}

// Move extends the active stroke to p. It returns the segment from the
// previous position to p, normalized by the current surface size and
// stamped with tool and color. ok is false while idle.
func (c *Capture) Move(p board.Point, tool board.Tool, color string) (seg board.Segment, ok bool) {
	if c.state != Drawing || c.last == nil {
		return board.Segment{}, false
	}

	from, err := board.Normalize(*c.last, c.dims)
	if err != nil {
		slog.Warn("Dropping pointer move", "dims", c.dims, "err", err)
		return board.Segment{}, false
	}
	to, err := board.Normalize(p, c.dims)
	if err != nil {
		slog.Warn("Dropping pointer move", "dims", c.dims, "err", err)
		return board.Segment{}, false
	}

	c.last = &p
	return board.NewSegment(from, to, color, tool), true
}

// Up ends the active stroke.
func (c *Capture) Up() {
	c.state = Idle
	c.last = nil
}

// Leave ends the active stroke when the pointer exits the surface, so
// re-entering does not draw a long segment from the exit point.
func (c *Capture) Leave() {
	c.Up()
}
