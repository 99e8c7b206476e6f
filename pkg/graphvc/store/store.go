// Package store provides write-through persistence for engine records.
//
// The engine is in-memory; an Archive is an optional durability layer
// it writes each version, branch, and change record through to, and
// can rehydrate a workflow's history from at startup. Records cross
// the boundary as serialized bytes so the archive stays decoupled
// from the engine's types.
package store

import "errors"

// Archive persists engine records keyed by id.
// Implementations must be safe for concurrent use.
type Archive interface {
	// SaveVersion stores a version record. Overwrites on same id
	// (tagging and activation rewrite the record).
	SaveVersion(workflowID, versionID string, data []byte) error

	// Version retrieves one version record.
	// Returns ErrNotFound if it doesn't exist.
	Version(versionID string) ([]byte, error)

	// WorkflowVersions returns all version records for a workflow, in
	// insertion order. Empty slice (not error) if none exist.
	WorkflowVersions(workflowID string) ([][]byte, error)

	// SaveBranch stores a branch record, overwriting on same id.
	SaveBranch(workflowID, branchID string, data []byte) error

	// WorkflowBranches returns all branch records for a workflow, in
	// insertion order. Empty slice (not error) if none exist.
	WorkflowBranches(workflowID string) ([][]byte, error)

	// SaveChange appends a change record to a version's log.
	SaveChange(versionID, changeID string, data []byte) error

	// VersionChanges returns a version's change records in insertion
	// order. Empty slice (not error) if none exist.
	VersionChanges(versionID string) ([][]byte, error)

	// SetActiveVersion records the active version for a workflow.
	SetActiveVersion(workflowID, versionID string) error

	// ActiveVersion returns the active version id for a workflow.
	// Returns ErrNotFound if none was recorded.
	ActiveVersion(workflowID string) (string, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for archive operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrArchiveClosed indicates the archive has been closed.
	ErrArchiveClosed = errors.New("archive closed")
)
