// Package event carries the version-control engine's notifications:
// typed events published to an in-process bus so UI live-update and
// persistence hooks can observe mutations without coupling to the
// engine's API surface.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the engine.
const (
	TypeVersionCreated       = "version-created"
	TypeActiveVersionChanged = "active-version-changed"
	TypeBranchCreated        = "branch-created"
	TypeBranchUpdated        = "branch-updated"
	TypeChangeRecorded       = "change-recorded"
	TypeBranchesMerged       = "branches-merged"
	TypeConflictResolved     = "conflict-resolved"
	TypeRollbackPerformed    = "rollback-performed"
)

// Event is one engine notification. Events are immutable once created.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	WorkflowID string    `json:"workflowId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	// Payload carries the record the event is about (a Version,
	// Branch, Change, ConflictInfo, or MergeResult).
	Payload any `json:"payload,omitempty"`
}

// New creates an event with a fresh id and the current time.
func New(eventType, workflowID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		WorkflowID: workflowID,
		Timestamp:  time.Now(),
		Payload:    payload,
	}
}

// Handler receives published events. Handlers on a synchronous bus run
// inline with the publishing operation and must not do long-running
// work.
type Handler func(Event)
