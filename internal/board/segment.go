package board

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// ErrInvalidSegment is returned for segments that fail validation.
var ErrInvalidSegment = errors.New("invalid segment")

// Tool is the drawing mode of a segment.
type Tool string

const (
	// ToolPen paints the segment color over existing content.
	ToolPen Tool = "pen"
	// ToolEraser removes existing content along the stroke.
	ToolEraser Tool = "eraser"
)

// Stroke widths in pixels.
const (
	PenWidth    = 5.0
	EraserWidth = 20.0
)

// Session defaults.
const (
	DefaultColor = "#FFFFFF"
	DefaultBoard = "whiteboard-channel"
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ParseTool parses a tool name.
func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tool %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t == ToolPen || t == ToolEraser
}

// Width returns the stroke width used for the tool.
func (t Tool) Width() float64 {
	if t == ToolEraser {
		return EraserWidth
	}
	return PenWidth
}

// ValidColor reports whether s is a #RGB, #RRGGBB or #RRGGBBAA hex color.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// Segment is a single line-draw instruction exchanged between participants.
// Coordinates are fractions of the surface width and height.
type Segment struct {
	X0    float64 `json:"x0" msgpack:"x0"`
	Y0    float64 `json:"y0" msgpack:"y0"`
	X1    float64 `json:"x1" msgpack:"x1"`
	Y1    float64 `json:"y1" msgpack:"y1"`
	Color string  `json:"color" msgpack:"color"`
	Tool  Tool    `json:"tool" msgpack:"tool"`
}

// NewSegment builds a segment between two normalized points.
func NewSegment(from, to Point, color string, tool Tool) Segment {
	return Segment{
		X0:    from.X,
		Y0:    from.Y,
		X1:    to.X,
		Y1:    to.Y,
		Color: color,
		Tool:  tool,
	}
}

// From returns the normalized start point.
func (s Segment) From() Point { return Point{X: s.X0, Y: s.Y0} }

// To returns the normalized end point.
func (s Segment) To() Point { return Point{X: s.X1, Y: s.Y1} }

// Validate checks coordinate ranges, the tool and the color.
func (s Segment) Validate() error {
	for _, v := range [...]float64{s.X0, s.Y0, s.X1, s.Y1} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: coordinate %v outside [0,1]", ErrInvalidSegment, v)
		}
	}
	if !s.Tool.Valid() {
		return fmt.Errorf("%w: unknown tool %q", ErrInvalidSegment, s.Tool)
	}
	if !ValidColor(s.Color) {
		return fmt.Errorf("%w: bad color %q", ErrInvalidSegment, s.Color)
	}
	return nil
}
