package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/graphvc/pkg/graphvc/config"
)

func TestConfig_Accessors(t *testing.T) {
	c := config.New(map[string]any{
		"name":      "graphvc",
		"enabled":   true,
		"count":     3,
		"count64":   int64(7),
		"countF":    float64(9),
		"fraction":  1.5,
		"interval":  "250ms",
		"intervalN": 2,
		"badDur":    "not-a-duration",
	})

	assert.Equal(t, "graphvc", c.String("name", "fallback"))
	assert.Equal(t, "fallback", c.String("missing", "fallback"))
	assert.Equal(t, "fallback", c.String("enabled", "fallback")) // wrong type

	assert.True(t, c.Bool("enabled", false))
	assert.True(t, c.Bool("missing", true))

	assert.Equal(t, 3, c.Int("count", 0))
	assert.Equal(t, 7, c.Int("count64", 0))
	assert.Equal(t, 9, c.Int("countF", 0))
	assert.Equal(t, 42, c.Int("fraction", 42)) // non-whole float rejected
	assert.Equal(t, 42, c.Int("missing", 42))

	assert.Equal(t, 250*time.Millisecond, c.Duration("interval", time.Second))
	assert.Equal(t, 2*time.Second, c.Duration("intervalN", time.Second))
	assert.Equal(t, time.Minute, c.Duration("badDur", time.Minute))
	assert.Equal(t, time.Minute, c.Duration("missing", time.Minute))

	assert.True(t, c.Has("name"))
	assert.False(t, c.Has("missing"))
}

func TestConfig_NilMap(t *testing.T) {
	c := config.New(nil)
	assert.Equal(t, "x", c.String("anything", "x"))
	assert.False(t, c.Has("anything"))
}

func TestFromYAML(t *testing.T) {
	c, err := config.FromYAML([]byte(`
archive_path: ./history.db
default_branch: trunk
event_buffer_size: 64
synchronous_events: true
non_blocking_events: true
`))
	require.NoError(t, err)

	s := config.EngineSettings(c)
	assert.Equal(t, "./history.db", s.ArchivePath)
	assert.Equal(t, "trunk", s.DefaultBranch)
	assert.Equal(t, 64, s.EventBufferSize)
	assert.True(t, s.SynchronousEvents)
	assert.True(t, s.NonBlockingEvents)
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := config.FromYAML([]byte("archive_path: [unclosed"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	c, err := config.FromJSON([]byte(`{"default_branch": "develop", "event_buffer_size": 128}`))
	require.NoError(t, err)

	s := config.EngineSettings(c)
	assert.Equal(t, "develop", s.DefaultBranch)
	assert.Equal(t, 128, s.EventBufferSize)
	assert.Empty(t, s.ArchivePath)
	assert.False(t, s.SynchronousEvents)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := config.FromJSON([]byte(`{"bad":`))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("default_branch: release"), 0o644))

	c, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "release", c.String("default_branch", ""))

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"default_branch": "release"}`), 0o644))

	c, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "release", c.String("default_branch", ""))
}

func TestFromFile_Errors(t *testing.T) {
	_, err := config.FromFile("/nonexistent/config.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	_, err = config.FromFile(path)
	assert.ErrorContains(t, err, "unsupported config file extension")
}

func TestDefaultSettings(t *testing.T) {
	s := config.DefaultSettings()
	assert.Equal(t, "main", s.DefaultBranch)
	assert.Equal(t, 256, s.EventBufferSize)
	assert.Empty(t, s.ArchivePath)
	assert.False(t, s.SynchronousEvents)
}
