package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc/internal/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, "warn", c.LogLevel)
	assert.Empty(t, c.Calc.Format)
	assert.Zero(t, c.Calc.MaxDepth)
	assert.False(t, c.RPS.Emoji)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*config.Config)
		wantErr bool
	}{
		{"default", func(*config.Config) {}, false},
		{"debug", func(c *config.Config) { c.LogLevel = "debug" }, false},
		{"bad level", func(c *config.Config) { c.LogLevel = "chatty" }, true},
		{"negative depth", func(c *config.Config) { c.Calc.MaxDepth = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			tt.mod(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
log_level: debug
telemetry: true
calc:
  format: "%.3f"
  lines: true
  max_depth: 50
rps:
  emoji: true
  history: games.db
  seed: 42
`)
	c, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.Telemetry)
	assert.Equal(t, "%.3f", c.Calc.Format)
	assert.True(t, c.Calc.Lines)
	assert.Equal(t, 50, c.Calc.MaxDepth)
	assert.True(t, c.RPS.Emoji)
	assert.Equal(t, "games.db", c.RPS.History)
	assert.Equal(t, int64(42), c.RPS.Seed)
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	c, err := config.FromYAML([]byte("rps:\n  emoji: true\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", c.LogLevel)
	assert.True(t, c.RPS.Emoji)
}

func TestFromYAMLErrors(t *testing.T) {
	_, err := config.FromYAML([]byte("log_level: [unclosed"))
	assert.Error(t, err)
	_, err = config.FromYAML([]byte("log_level: shouting"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	c, err := config.FromJSON([]byte(`{"log_level": "error", "calc": {"max_depth": 10}}`))
	require.NoError(t, err)
	assert.Equal(t, "error", c.LogLevel)
	assert.Equal(t, 10, c.Calc.MaxDepth)

	_, err = config.FromJSON([]byte(`{"calc": {"max_depth": -5}}`))
	assert.Error(t, err)
	_, err = config.FromJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "calc.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("calc:\n  lines: true\n"), 0o644))
	c, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.True(t, c.Calc.Lines)

	ymlPath := filepath.Join(dir, "calc.YML")
	require.NoError(t, os.WriteFile(ymlPath, []byte("log_level: info\n"), 0o644))
	c, err = config.FromFile(ymlPath)
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)

	jsonPath := filepath.Join(dir, "calc.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"rps": {"seed": 7}}`), 0o644))
	c, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.RPS.Seed)

	tomlPath := filepath.Join(dir, "calc.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(""), 0o644))
	_, err = config.FromFile(tomlPath)
	assert.ErrorContains(t, err, "unsupported")

	_, err = config.FromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}
