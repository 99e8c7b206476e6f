// Package observability provides structured logging, metrics, and
// tracing for the version-control engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger returns a logger carrying workflow context.
func EnrichLogger(logger *slog.Logger, workflowID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("workflow_id", workflowID))
}

// LogVersionCreated logs a committed version.
func LogVersionCreated(logger *slog.Logger, workflowID, versionID, number, branch string) {
	if logger == nil {
		return
	}
	logger.Info("version created",
		slog.String("workflow_id", workflowID),
		slog.String("version_id", versionID),
		slog.String("version_number", number),
		slog.String("branch", branch),
	)
}

// LogActiveVersionChanged logs an active-version pointer move.
func LogActiveVersionChanged(logger *slog.Logger, workflowID, versionID string) {
	if logger == nil {
		return
	}
	logger.Info("active version changed",
		slog.String("workflow_id", workflowID),
		slog.String("version_id", versionID),
	)
}

// LogBranchCreated logs branch creation.
func LogBranchCreated(logger *slog.Logger, workflowID, branchID, name string) {
	if logger == nil {
		return
	}
	logger.Info("branch created",
		slog.String("workflow_id", workflowID),
		slog.String("branch_id", branchID),
		slog.String("branch", name),
	)
}

// LogDiffComputed logs a version comparison.
func LogDiffComputed(logger *slog.Logger, versionAID, versionBID string, changeCount int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("diff computed",
		slog.String("version_a", versionAID),
		slog.String("version_b", versionBID),
		slog.Int("changes", changeCount),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogMergeCompleted logs a successful merge.
func LogMergeCompleted(logger *slog.Logger, sourceBranch, targetBranch, mergedVersionID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("branches merged",
		slog.String("source_branch", sourceBranch),
		slog.String("target_branch", targetBranch),
		slog.String("merged_version_id", mergedVersionID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogMergeConflicts logs a merge stopped by conflicts.
// Conflicts are an expected outcome, so this is a warn, not an error.
func LogMergeConflicts(logger *slog.Logger, sourceBranch, targetBranch string, conflictCount int) {
	if logger == nil {
		return
	}
	logger.Warn("merge stopped by conflicts",
		slog.String("source_branch", sourceBranch),
		slog.String("target_branch", targetBranch),
		slog.Int("conflicts", conflictCount),
	)
}

// LogMergeError logs a structurally invalid merge request.
func LogMergeError(logger *slog.Logger, sourceBranchID, targetBranchID, msg string) {
	if logger == nil {
		return
	}
	logger.Error("merge failed",
		slog.String("source_branch_id", sourceBranchID),
		slog.String("target_branch_id", targetBranchID),
		slog.String("error", msg),
	)
}

// LogRollback logs a rollback append.
func LogRollback(logger *slog.Logger, workflowID, targetVersionID, newVersionID string) {
	if logger == nil {
		return
	}
	logger.Info("rollback performed",
		slog.String("workflow_id", workflowID),
		slog.String("target_version_id", targetVersionID),
		slog.String("new_version_id", newVersionID),
	)
}

// LogArchiveError logs a write-through persistence failure (non-fatal).
func LogArchiveError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("archive write failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
