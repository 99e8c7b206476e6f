package graphvc

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"

	"github.com/randalmurphal/graphvc/pkg/graphvc/config"
	"github.com/randalmurphal/graphvc/pkg/graphvc/event"
	"github.com/randalmurphal/graphvc/pkg/graphvc/store"
)

// NewFromConfig builds an engine from loaded configuration: an event
// bus sized per the settings, and a SQLite archive when archive_path
// is set. Explicit options are applied after config and win on
// overlap. Resources the config created are owned by the engine and
// released by Close.
func NewFromConfig(cfg config.Config, opts ...Option) (*Engine, error) {
	settings := config.EngineSettings(cfg)

	bus := event.NewBus(event.BusConfig{
		BufferSize:  settings.EventBufferSize,
		Synchronous: settings.SynchronousEvents,
		NonBlocking: settings.NonBlockingEvents,
	})
	base := []Option{
		WithDefaultBranch(settings.DefaultBranch),
		WithEventBus(bus),
	}

	var archive store.Archive
	if settings.ArchivePath != "" {
		a, err := store.NewSQLiteArchive(settings.ArchivePath)
		if err != nil {
			bus.Close()
			return nil, err
		}
		archive = a
		base = append(base, WithArchive(a))
	}

	e := New(append(base, opts...)...)
	e.ownsBus = e.cfg.bus == bus
	e.ownsArchive = archive != nil && e.cfg.archive == archive
	if !e.ownsBus {
		bus.Close()
	}
	if archive != nil && !e.ownsArchive {
		archive.Close()
	}
	return e, nil
}

// Restore rehydrates one workflow's history (versions, branches,
// change logs, and the active-version pointer) from the archive,
// replacing whatever the engine holds in memory for that workflow.
// Unresolved conflicts are transient and are not restored.
func (e *Engine) Restore(ctx context.Context, workflowID string) error {
	if e.cfg.archive == nil {
		return ErrNoArchive
	}

	lock := e.workflowLock(workflowID)
	lock.Lock()
	defer lock.Unlock()

	versionRecords, err := e.cfg.archive.WorkflowVersions(workflowID)
	if err != nil {
		return &ArchiveError{Op: "load versions", Key: workflowID, Err: err}
	}
	branchRecords, err := e.cfg.archive.WorkflowBranches(workflowID)
	if err != nil {
		return &ArchiveError{Op: "load branches", Key: workflowID, Err: err}
	}
	activeID, err := e.cfg.archive.ActiveVersion(workflowID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return &ArchiveError{Op: "load active version", Key: workflowID, Err: err}
	}

	versions := make([]*Version, 0, len(versionRecords))
	for _, data := range versionRecords {
		var v Version
		if err := json.Unmarshal(data, &v); err != nil {
			return &ArchiveError{Op: "decode version", Key: workflowID, Err: err}
		}
		versions = append(versions, &v)
	}
	branches := make([]*Branch, 0, len(branchRecords))
	for _, data := range branchRecords {
		var b Branch
		if err := json.Unmarshal(data, &b); err != nil {
			return &ArchiveError{Op: "decode branch", Key: workflowID, Err: err}
		}
		branches = append(branches, &b)
	}

	changeLogs := make(map[string][]*Change, len(versions))
	for _, v := range versions {
		records, err := e.cfg.archive.VersionChanges(v.ID)
		if err != nil {
			return &ArchiveError{Op: "load changes", Key: v.ID, Err: err}
		}
		for _, data := range records {
			var ch Change
			if err := json.Unmarshal(data, &ch); err != nil {
				return &ArchiveError{Op: "decode change", Key: v.ID, Err: err}
			}
			changeLogs[v.ID] = append(changeLogs[v.ID], &ch)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Drop the workflow's current in-memory state before reloading.
	for _, id := range e.versionOrder[workflowID] {
		delete(e.versions, id)
		delete(e.changes, id)
	}
	e.versionOrder[workflowID] = nil
	for name, id := range e.branchNames[workflowID] {
		delete(e.branches, id)
		delete(e.branchNames[workflowID], name)
	}
	delete(e.active, workflowID)

	for _, v := range versions {
		e.versions[v.ID] = v
		e.versionOrder[workflowID] = append(e.versionOrder[workflowID], v.ID)
	}
	if e.branchNames[workflowID] == nil && len(branches) > 0 {
		e.branchNames[workflowID] = make(map[string]string, len(branches))
	}
	for _, b := range branches {
		e.branches[b.ID] = b
		e.branchNames[workflowID][b.Name] = b.ID
	}
	for id, log := range changeLogs {
		e.changes[id] = log
	}
	if activeID != "" {
		if _, ok := e.versions[activeID]; ok {
			e.active[workflowID] = activeID
		}
	}
	return nil
}
