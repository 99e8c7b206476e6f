// Package config loads engine configuration from YAML or JSON.
package config

import "time"

// Config wraps a map[string]any with typed accessors. Accessors return
// the given default when a key is missing or holds the wrong type, so
// partially-specified config files never fail at read time.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// A nil map yields an empty Config.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string at key, or defaultVal.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the bool at key, or defaultVal.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer at key, or defaultVal.
// YAML and JSON decoders disagree on number types, so int, int64, and
// whole-valued float64 are all accepted.
func (c Config) Int(key string, defaultVal int) int {
	switch v := c.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return defaultVal
}

// Duration returns the duration at key, or defaultVal.
// Strings are parsed with time.ParseDuration; bare numbers are seconds.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch v := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return defaultVal
}

// Has returns true if the key exists.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Settings are the engine knobs a config file can set.
type Settings struct {
	// ArchivePath is the SQLite archive file; empty means no archive.
	ArchivePath string

	// DefaultBranch is the branch new versions land on when the caller
	// names none.
	DefaultBranch string

	// EventBufferSize is the per-subscription event channel buffer.
	EventBufferSize int

	// SynchronousEvents delivers events inline with mutations instead
	// of through subscription goroutines.
	SynchronousEvents bool

	// NonBlockingEvents drops events when a subscriber's buffer is
	// full instead of making the mutation wait.
	NonBlockingEvents bool
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		DefaultBranch:   "main",
		EventBufferSize: 256,
	}
}

// EngineSettings extracts engine settings from a Config, applying
// defaults for anything unset.
func EngineSettings(c Config) Settings {
	s := DefaultSettings()
	s.ArchivePath = c.String("archive_path", s.ArchivePath)
	s.DefaultBranch = c.String("default_branch", s.DefaultBranch)
	s.EventBufferSize = c.Int("event_buffer_size", s.EventBufferSize)
	s.SynchronousEvents = c.Bool("synchronous_events", s.SynchronousEvents)
	s.NonBlockingEvents = c.Bool("non_blocking_events", s.NonBlockingEvents)
	return s
}
