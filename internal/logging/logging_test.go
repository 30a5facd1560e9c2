package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":            slog.LevelError,
		"debug":       slog.LevelDebug,
		"development": slog.LevelDebug,
		"info":        slog.LevelInfo,
		"warning":     slog.LevelWarn,
		"prod":        slog.LevelError,
		"verbose":     slog.LevelError,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
