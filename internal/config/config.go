// Package config holds the settings of the PageMarkup binary. Values come
// from built-in defaults, an optional TOML file and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"PageMarkup/internal/editor"
	"PageMarkup/internal/state"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration options.
type Config struct {
	// Serve runs the headless websocket server instead of the desktop app
	Serve bool `toml:"serve"`
	// Listen is the server's host:port; port 0 picks a free port
	Listen string `toml:"listen"`
	// MDNS advertises the server on the local network
	MDNS bool `toml:"mdns"`
	// Instance is the advertised name; empty means the host name
	Instance string `toml:"instance"`
	// Discover lists the servers advertised on the local network and exits
	Discover bool `toml:"discover"`

	LogLevel string `toml:"log_level"`
	// LogFile receives the log instead of stderr
	LogFile string `toml:"log_file"`

	// IDs selects how annotation ids are minted: "uuid" or "counter"
	IDs string `toml:"ids"`
	// Tool is active at startup
	Tool string `toml:"tool"`
	// Document is opened at startup
	Document string `toml:"document"`

	WindowWidth  int `toml:"window_width"`
	WindowHeight int `toml:"window_height"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Listen:       ":8765",
		MDNS:         true,
		LogLevel:     "info",
		IDs:          "uuid",
		Tool:         "select",
		WindowWidth:  1100,
		WindowHeight: 800,
	}
}

// Load builds a Config from args. A -config flag names a TOML file whose
// values replace the defaults; the remaining flags replace both.
func Load(args []string, output io.Writer) (*Config, error) {
	var path string
	probe := flag.NewFlagSet("pagemarkup", flag.ContinueOnError)
	probe.SetOutput(io.Discard)
	New().bind(probe)
	probe.StringVar(&path, "config", "", "")
	if err := probe.Parse(args); err != nil {
		// report the error with usage below
		path = ""
	}

	c := New()
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}

	fs := flag.NewFlagSet("pagemarkup", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	c.bind(fs)
	fs.String("config", "", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 && c.Document == "" {
		c.Document = fs.Arg(0)
	}
	return c, c.Validate()
}

// LoadFile decodes a TOML file over c. Keys that do not name a setting are
// an error.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) bind(fs *flag.FlagSet) {
	fs.BoolVar(&c.Serve, "serve", c.Serve, "run the headless websocket server")
	fs.StringVar(&c.Listen, "listen", c.Listen, "server listen address")
	fs.BoolVar(&c.MDNS, "mdns", c.MDNS, "advertise the server over mDNS")
	fs.StringVar(&c.Instance, "instance", c.Instance, "mDNS instance name")
	fs.BoolVar(&c.Discover, "discover", c.Discover, "list servers on the local network and exit")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (trace, debug, info, warn, error)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "append the log to this file")
	fs.StringVar(&c.IDs, "ids", c.IDs, "annotation id scheme (uuid, counter)")
	fs.StringVar(&c.Tool, "tool", c.Tool, "tool active at startup")
	fs.StringVar(&c.Document, "document", c.Document, "document to open at startup")
	fs.IntVar(&c.WindowWidth, "width", c.WindowWidth, "window width")
	fs.IntVar(&c.WindowHeight, "height", c.WindowHeight, "window height")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("%w: listen address %q: %v", ErrInvalid, c.Listen, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	if c.IDs != "uuid" && c.IDs != "counter" {
		return fmt.Errorf("%w: id scheme %q", ErrInvalid, c.IDs)
	}
	if _, err := editor.ParseTool(c.Tool); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.WindowWidth, c.WindowHeight)
	}
	return nil
}

// Level returns the parsed log level; call Validate first.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// StartTool returns the parsed startup tool; call Validate first.
func (c *Config) StartTool() editor.Tool {
	t, err := editor.ParseTool(c.Tool)
	if err != nil {
		return editor.ToolSelect
	}
	return t
}

func (c *Config) IDGenerator() state.IDGenerator {
	if c.IDs == "counter" {
		return state.NewCounter("a")
	}
	return &state.UUIDGenerator{}
}
