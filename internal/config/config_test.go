package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PageMarkup/internal/editor"
	"PageMarkup/internal/state"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagemarkup.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew(t *testing.T) {
	c := New()
	require.NoError(t, c.Validate())
	assert.Equal(t, zerolog.InfoLevel, c.Level())
	assert.Equal(t, editor.ToolSelect, c.StartTool())
	assert.IsType(t, &state.UUIDGenerator{}, c.IDGenerator())
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, `
listen = "127.0.0.1:9000"
log_level = "debug"
tool = "line"
ids = "counter"
`)

	t.Run("FileOverridesDefaults", func(t *testing.T) {
		c, err := Load([]string{"-config", path}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", c.Listen)
		assert.Equal(t, zerolog.DebugLevel, c.Level())
		assert.Equal(t, editor.ToolLine, c.StartTool())
		assert.IsType(t, &state.Counter{}, c.IDGenerator())
		assert.True(t, c.MDNS, "unset keys keep their defaults")
	})

	t.Run("FlagsOverrideFile", func(t *testing.T) {
		c, err := Load([]string{"-tool", "area", "-config", path, "-mdns=false", "page.png"}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, "area", c.Tool)
		assert.Equal(t, "127.0.0.1:9000", c.Listen)
		assert.False(t, c.MDNS)
		assert.Equal(t, "page.png", c.Document)
	})

	t.Run("NoFile", func(t *testing.T) {
		c, err := Load([]string{"-serve", "-listen", ":0"}, io.Discard)
		require.NoError(t, err)
		assert.True(t, c.Serve)
		assert.False(t, c.Discover)
		assert.Equal(t, ":0", c.Listen)
		assert.Equal(t, "select", c.Tool)
	})
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, io.Discard)
	assert.Error(t, err)

	_, err = Load([]string{"-config", writeFile(t, `colour = "red"`)}, io.Discard)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "colour")

	_, err = Load([]string{"-no-such-flag"}, io.Discard)
	assert.Error(t, err)

	_, err = Load([]string{"-ids", "sequential"}, io.Discard)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"Listen":   func(c *Config) { c.Listen = "8765" },
		"LogLevel": func(c *Config) { c.LogLevel = "loud" },
		"IDs":      func(c *Config) { c.IDs = "random" },
		"Tool":     func(c *Config) { c.Tool = "lasso" },
		"Window":   func(c *Config) { c.WindowWidth = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			c := New()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}
