package whiteboard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// InputKind identifies a local input.
type InputKind int

const (
	InputDown InputKind = iota
	InputMove
	InputUp
	InputLeave
	InputClear
	InputTool
	InputColor
	InputResize
	InputWait
)

var inputNames = map[InputKind]string{
	InputDown:   "down",
	InputMove:   "move",
	InputUp:     "up",
	InputLeave:  "leave",
	InputClear:  "clear",
	InputTool:   "tool",
	InputColor:  "color",
	InputResize: "size",
	InputWait:   "wait",
}

func (k InputKind) String() string {
	if name, ok := inputNames[k]; ok {
		return name
	}
	return fmt.Sprintf("input(%d)", int(k))
}

// Input is one local event for the controller loop. Point is in surface
// pixels.
type Input struct {
	Kind  InputKind
	Point board.Point
	Size  board.Dimensions
	Tool  board.Tool
	Color string
	Wait  time.Duration
}

func (in Input) String() string {
	switch in.Kind {
	case InputDown, InputMove:
		return fmt.Sprintf("%s %g %g", in.Kind, in.Point.X, in.Point.Y)
	case InputResize:
		return fmt.Sprintf("%s %d %d", in.Kind, in.Size.Width, in.Size.Height)
	case InputTool:
		return fmt.Sprintf("%s %s", in.Kind, in.Tool)
	case InputColor:
		return fmt.Sprintf("%s %s", in.Kind, in.Color)
	case InputWait:
		return fmt.Sprintf("%s %s", in.Kind, in.Wait)
	}
	return in.Kind.String()
}

// ParseScript reads a pointer script, one command per line:
//
//	size W H
//	tool pen|eraser
//	color #RRGGBB
//	down X Y
//	move X Y
//	up
//	leave
//	clear
//	wait 50ms
//
// Blank lines and lines starting with # are skipped.
func ParseScript(r io.Reader) ([]Input, error) {
	var inputs []Input
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		in, err := parseLine(strings.Fields(text))
		if err != nil {
			return nil, WrapError("parse script", ErrInvalidScript, fmt.Sprintf("line %d: %v", line, err))
		}
		inputs = append(inputs, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, NewError("read script", err)
	}
	return inputs, nil
}

func parseLine(fields []string) (Input, error) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s takes %d argument(s), got %d", cmd, n, len(args))
		}
		return nil
	}

	switch cmd {
	case "down", "move":
		if err := want(2); err != nil {
			return Input{}, err
		}
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return Input{}, fmt.Errorf("bad x: %w", err)
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return Input{}, fmt.Errorf("bad y: %w", err)
		}
		kind := InputDown
		if cmd == "move" {
			kind = InputMove
		}
		return Input{Kind: kind, Point: board.Point{X: x, Y: y}}, nil

	case "up", "leave", "clear":
		if err := want(0); err != nil {
			return Input{}, err
		}
		kind := map[string]InputKind{"up": InputUp, "leave": InputLeave, "clear": InputClear}[cmd]
		return Input{Kind: kind}, nil

	case "tool":
		if err := want(1); err != nil {
			return Input{}, err
		}
		t, err := board.ParseTool(strings.ToLower(args[0]))
		if err != nil {
			return Input{}, err
		}
		return Input{Kind: InputTool, Tool: t}, nil

	case "color":
		if err := want(1); err != nil {
			return Input{}, err
		}
		if !board.ValidColor(args[0]) {
			return Input{}, fmt.Errorf("invalid color %q", args[0])
		}
		return Input{Kind: InputColor, Color: args[0]}, nil

	case "size":
		if err := want(2); err != nil {
			return Input{}, err
		}
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return Input{}, fmt.Errorf("bad width: %w", err)
		}
		h, err := strconv.Atoi(args[1])
		if err != nil {
			return Input{}, fmt.Errorf("bad height: %w", err)
		}
		d := board.Dimensions{Width: w, Height: h}
		if !d.Valid() {
			return Input{}, board.ErrInvalidDimensions
		}
		return Input{Kind: InputResize, Size: d}, nil

	case "wait":
		if err := want(1); err != nil {
			return Input{}, err
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return Input{}, err
		}
		if d < 0 {
			return Input{}, fmt.Errorf("negative wait %s", d)
		}
		return Input{Kind: InputWait, Wait: d}, nil
	}
	return Input{}, fmt.Errorf("unknown command %q", cmd)
}

// Feed sends inputs on the returned channel, pausing at wait inputs, and
// closes it when done or when ctx is cancelled.
func Feed(ctx context.Context, inputs []Input) <-chan Input {
	out := make(chan Input)
	go func() {
		defer close(out)
		for _, in := range inputs {
			if in.Kind == InputWait {
				timer := time.NewTimer(in.Wait)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return
				}
				continue
			}
			select {
			case out <- in:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
