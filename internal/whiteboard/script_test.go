package whiteboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

func TestParseScript(t *testing.T) {
	inputs, err := ParseScript(strings.NewReader(strokeScript + "tool Eraser\nleave\n"))
	require.NoError(t, err)

	want := []Input{
		{Kind: InputResize, Size: board.Dimensions{Width: 200, Height: 100}},
		{Kind: InputColor, Color: "#FF8800"},
		{Kind: InputDown, Point: board.Point{X: 20, Y: 50}},
		{Kind: InputMove, Point: board.Point{X: 100, Y: 50}},
		{Kind: InputWait, Wait: time.Millisecond},
		{Kind: InputMove, Point: board.Point{X: 180, Y: 50}},
		{Kind: InputUp},
		{Kind: InputClear},
		{Kind: InputTool, Tool: board.ToolEraser},
		{Kind: InputLeave},
	}
	assert.Equal(t, want, inputs)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		line   string
	}{
		{"unknown command", "hover 1 2", "line 1"},
		{"missing coordinate", "down 1", "line 1"},
		{"bad number", "\nmove x 2", "line 2"},
		{"extra argument", "up now", "line 1"},
		{"bad tool", "tool brush", "line 1"},
		{"bad color", "color red", "line 1"},
		{"zero size", "size 0 10", "line 1"},
		{"bad wait", "wait soon", "line 1"},
		{"negative wait", "wait -1s", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(tt.script))
			require.ErrorIs(t, err, ErrInvalidScript)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestFeedSkipsWaitsAndCloses(t *testing.T) {
	inputs := []Input{
		{Kind: InputDown},
		{Kind: InputWait, Wait: time.Millisecond},
		{Kind: InputUp},
	}
	var got []InputKind
	for in := range Feed(context.Background(), inputs) {
		got = append(got, in.Kind)
	}
	assert.Equal(t, []InputKind{InputDown, InputUp}, got)
}

func TestFeedStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := Feed(ctx, []Input{{Kind: InputWait, Wait: time.Hour}, {Kind: InputUp}})
	cancel()
	_, ok := <-out
	assert.False(t, ok)
}

func TestInputString(t *testing.T) {
	assert.Equal(t, "move 1.5 2", Input{Kind: InputMove, Point: board.Point{X: 1.5, Y: 2}}.String())
	assert.Equal(t, "size 3 4", Input{Kind: InputResize, Size: board.Dimensions{Width: 3, Height: 4}}.String())
	assert.Equal(t, "clear", Input{Kind: InputClear}.String())
}

func TestBoardErrorFormatting(t *testing.T) {
	err := NewBoardError("subscribe", "physics", ErrSessionClosed)
	assert.Equal(t, "subscribe physics: session closed", err.Error())
	assert.ErrorIs(t, err, ErrSessionClosed)

	wrapped := WrapError("parse script", ErrInvalidScript, "line 3")
	assert.Equal(t, "parse script: invalid pointer script (line 3)", wrapped.Error())
}
