package graphvc

import (
	"errors"
	"fmt"
)

// ErrNoArchive indicates Restore was called on an engine built
// without an archive.
var ErrNoArchive = errors.New("no archive configured")

// Lookup-style operations (GetVersion, GetBranch, SetActiveVersion,
// TagVersion, ...) report unknown ids with nil/false returns rather
// than errors, so API layers can translate straight to not-found
// responses. Errors are reserved for archive and configuration faults.

// ArchiveError wraps a failure persisting or loading an engine record.
type ArchiveError struct {
	// Op is the operation that failed ("save version", "load branch").
	Op string
	// Key is the record id involved.
	Key string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s %s: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}
