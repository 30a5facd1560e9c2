package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// Default configuration values
const (
	DefaultServer     = "localhost:8080"
	DefaultBoard      = board.DefaultBoard
	DefaultCodec      = board.CodecJSON
	DefaultWidth      = 800
	DefaultHeight     = 500
	DefaultTool       = board.ToolPen
	DefaultColor      = board.DefaultColor
	DefaultListen     = ":8080"
	DefaultExplainURL = "http://localhost:54321/functions/v1/ai-request-handler"
)

// Config holds application configuration
type Config struct {
	// Server is the relay host[:port] participants connect to
	Server string
	Secure bool

	Board  string
	Codec  string
	Width  int
	Height int
	Tool   board.Tool
	Color  string

	// Listen is the relay's own listen address
	Listen string

	ExplainURL   string
	ExplainToken string
}

// Options for loading config with CLI flag overrides. Zero values mean
// "not set"; Secure is nil unless the flag was given.
type Options struct {
	ConfigFile   string
	Server       string
	Secure       *bool
	Board        string
	Codec        string
	Width        int
	Height       int
	Tool         string
	Color        string
	Listen       string
	ExplainURL   string
	ExplainToken string
}

// File is the optional TOML configuration file.
type File struct {
	Server  string `toml:"server"`
	Secure  bool   `toml:"secure"`
	Board   string `toml:"board"`
	Codec   string `toml:"codec"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Tool    string `toml:"tool"`
	Color   string `toml:"color"`
	Listen  string `toml:"listen"`
	Explain struct {
		URL   string `toml:"url"`
		Token string `toml:"token"`
	} `toml:"explain"`
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. TOML file from --config or SCS_CONFIG
// 4. Hardcoded defaults - lowest priority
func Load(opts Options) (*Config, error) {
	var file File
	path := first(opts.ConfigFile, os.Getenv("SCS_CONFIG"))
	if path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	width, err := intSetting(opts.Width, "SCS_WIDTH", file.Width, DefaultWidth)
	if err != nil {
		return nil, err
	}
	height, err := intSetting(opts.Height, "SCS_HEIGHT", file.Height, DefaultHeight)
	if err != nil {
		return nil, err
	}
	secure, err := boolSetting(opts.Secure, "SCS_SECURE", file.Secure)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:       first(opts.Server, os.Getenv("SCS_SERVER"), file.Server, DefaultServer),
		Secure:       secure,
		Board:        first(opts.Board, os.Getenv("SCS_BOARD"), file.Board, DefaultBoard),
		Codec:        strings.ToLower(first(opts.Codec, os.Getenv("SCS_CODEC"), file.Codec, DefaultCodec)),
		Width:        width,
		Height:       height,
		Tool:         board.Tool(strings.ToLower(first(opts.Tool, os.Getenv("SCS_TOOL"), file.Tool, string(DefaultTool)))),
		Color:        first(opts.Color, os.Getenv("SCS_COLOR"), file.Color, DefaultColor),
		Listen:       first(opts.Listen, os.Getenv("SCS_LISTEN"), file.Listen, DefaultListen),
		ExplainURL:   first(opts.ExplainURL, os.Getenv("SCS_EXPLAIN_URL"), file.Explain.URL, DefaultExplainURL),
		ExplainToken: first(opts.ExplainToken, os.Getenv("SCS_EXPLAIN_TOKEN"), file.Explain.Token),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a session depends on.
func (c *Config) Validate() error {
	var errs []error
	if _, err := board.CodecByName(c.Codec); err != nil {
		errs = append(errs, err)
	}
	if !c.Tool.Valid() {
		errs = append(errs, fmt.Errorf("unknown tool %q", c.Tool))
	}
	if !board.ValidColor(c.Color) {
		errs = append(errs, fmt.Errorf("invalid color %q", c.Color))
	}
	if !c.Dimensions().Valid() {
		errs = append(errs, fmt.Errorf("%w: %s", board.ErrInvalidDimensions, c.Dimensions()))
	}
	if c.Board == "" {
		errs = append(errs, errors.New("board name is empty"))
	}
	return errors.Join(errs...)
}

// Dimensions returns the configured surface size.
func (c *Config) Dimensions() board.Dimensions {
	return board.Dimensions{Width: c.Width, Height: c.Height}
}

// WebSocketURL returns the relay endpoint for joining the configured board
// as participant.
func (c *Config) WebSocketURL(participant string) string {
	scheme := "ws"
	if c.Secure {
		scheme = "wss"
	}
	q := url.Values{}
	q.Set("board", c.Board)
	q.Set("codec", c.Codec)
	if participant != "" {
		q.Set("participant", participant)
	}
	u := url.URL{Scheme: scheme, Host: c.Server, Path: "/ws", RawQuery: q.Encode()}
	return u.String()
}

// BoardsURL returns the relay's board listing endpoint.
func (c *Config) BoardsURL() string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: c.Server, Path: "/boards"}
	return u.String()
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intSetting(flag int, env string, file, def int) (int, error) {
	if flag != 0 {
		return flag, nil
	}
	if v := os.Getenv(env); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", env, err)
		}
		return n, nil
	}
	if file != 0 {
		return file, nil
	}
	return def, nil
}

func boolSetting(flag *bool, env string, file bool) (bool, error) {
	if flag != nil {
		return *flag, nil
	}
	if v := os.Getenv(env); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", env, err)
		}
		return b, nil
	}
	return file, nil
}
