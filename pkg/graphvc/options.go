package graphvc

import (
	"log/slog"

	"github.com/randalmurphal/graphvc/pkg/graphvc/event"
	"github.com/randalmurphal/graphvc/pkg/graphvc/observability"
	"github.com/randalmurphal/graphvc/pkg/graphvc/store"
)

// engineConfig holds engine construction settings.
type engineConfig struct {
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	bus           *event.Bus
	archive       store.Archive
	defaultBranch string
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
		defaultBranch: DefaultBranch,
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger enables structured logging of engine operations.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables metrics recording.
// Default: observability.NoopMetrics.
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithTracing enables span creation around engine operations.
// Default: observability.NoopSpanManager.
func WithTracing(spans observability.SpanManager) Option {
	return func(c *engineConfig) {
		if spans != nil {
			c.spans = spans
		}
	}
}

// WithEventBus publishes engine events to the given bus.
// Default: no events.
func WithEventBus(bus *event.Bus) Option {
	return func(c *engineConfig) {
		c.bus = bus
	}
}

// WithArchive writes every version, branch, and change record through
// to the given archive. Archive failures are logged, never surfaced
// from mutations. Default: in-memory only.
func WithArchive(archive store.Archive) Option {
	return func(c *engineConfig) {
		c.archive = archive
	}
}

// WithDefaultBranch sets the branch used when CreateVersion is called
// without one. Default: "main".
func WithDefaultBranch(name string) Option {
	return func(c *engineConfig) {
		if name != "" {
			c.defaultBranch = name
		}
	}
}

// versionConfig holds per-CreateVersion settings.
type versionConfig struct {
	description string
	parentID    string
	branch      string
}

// VersionOption configures a single CreateVersion call.
type VersionOption func(*versionConfig)

// WithDescription sets the version description.
func WithDescription(desc string) VersionOption {
	return func(c *versionConfig) {
		c.description = desc
	}
}

// WithParentVersion records the version this snapshot was edited from.
func WithParentVersion(id string) VersionOption {
	return func(c *versionConfig) {
		c.parentID = id
	}
}

// WithBranch places the version on the named branch's history line.
func WithBranch(name string) VersionOption {
	return func(c *versionConfig) {
		c.branch = name
	}
}

// branchConfig holds per-CreateBranch settings.
type branchConfig struct {
	description string
}

// BranchOption configures a single CreateBranch call.
type BranchOption func(*branchConfig)

// WithBranchDescription sets the branch description.
func WithBranchDescription(desc string) BranchOption {
	return func(c *branchConfig) {
		c.description = desc
	}
}
