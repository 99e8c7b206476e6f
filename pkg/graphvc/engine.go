package graphvc

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/randalmurphal/graphvc/pkg/graphvc/event"
	"github.com/randalmurphal/graphvc/pkg/graphvc/observability"
)

// Engine is the workflow version-control engine. It owns the version
// table, branches, change logs, conflicts, and active-version pointers
// for any number of workflows, and performs diffing, merging, and
// rollback over them.
//
// All state lives in the Engine value: construct one per process (or
// per tenant) and share it by reference. Mutating operations are
// serialized per workflow; reads may run concurrently. Every graph
// crossing the boundary is deep-copied, in both directions.
type Engine struct {
	mu sync.RWMutex

	// wfLocks serializes mutators per workflow so concurrent commits
	// can't produce duplicate version numbers or race head updates.
	wfLocks map[string]*sync.Mutex

	versions     map[string]*Version
	versionOrder map[string][]string // workflowID -> version ids, creation order
	branches     map[string]*Branch
	branchNames  map[string]map[string]string // workflowID -> branch name -> branch id
	changes      map[string][]*Change         // versionID -> append-only log
	conflicts    map[string]*ConflictInfo
	active       map[string]string // workflowID -> active version id

	cfg         engineConfig
	ownsBus     bool
	ownsArchive bool
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		wfLocks:      make(map[string]*sync.Mutex),
		versions:     make(map[string]*Version),
		versionOrder: make(map[string][]string),
		branches:     make(map[string]*Branch),
		branchNames:  make(map[string]map[string]string),
		changes:      make(map[string][]*Change),
		conflicts:    make(map[string]*ConflictInfo),
		active:       make(map[string]string),
		cfg:          cfg,
	}
}

// Events returns the engine's event bus, or nil if none is configured.
func (e *Engine) Events() *event.Bus {
	return e.cfg.bus
}

// Close releases resources the engine created itself (NewFromConfig's
// bus and archive). Injected dependencies stay open.
func (e *Engine) Close() error {
	var err error
	if e.ownsArchive && e.cfg.archive != nil {
		err = e.cfg.archive.Close()
	}
	if e.ownsBus && e.cfg.bus != nil {
		e.cfg.bus.Close()
	}
	return err
}

// workflowLock returns the mutex serializing mutations of one workflow.
func (e *Engine) workflowLock(workflowID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.wfLocks[workflowID]
	if !ok {
		l = &sync.Mutex{}
		e.wfLocks[workflowID] = l
	}
	return l
}

func (e *Engine) publish(evt event.Event) {
	if e.cfg.bus != nil {
		e.cfg.bus.Publish(evt)
	}
}

// CreateVersion snapshots a graph as a new immutable version.
//
// The graph is deep-copied, metadata is computed and stamped, and the
// version receives the next patch number on its (workflow, branch)
// line, or 1.0.0 if the branch has no versions yet. The new version
// becomes the workflow's active version. Returns nil if graph is nil.
func (e *Engine) CreateVersion(ctx context.Context, workflowID string, graph *Graph, author, name string, opts ...VersionOption) *Version {
	if graph == nil {
		return nil
	}
	vcfg := versionConfig{branch: e.cfg.defaultBranch}
	for _, opt := range opts {
		opt(&vcfg)
	}

	ctx, span := e.cfg.spans.StartOperationSpan(ctx, "create_version", workflowID)
	defer e.cfg.spans.EndSpanWithError(span, nil)

	lock := e.workflowLock(workflowID)
	lock.Lock()
	defer lock.Unlock()

	return e.createVersionLocked(ctx, workflowID, graph, author, name, vcfg)
}

// createVersionLocked commits a version and returns a detached copy.
// Caller holds the workflow lock.
func (e *Engine) createVersionLocked(ctx context.Context, workflowID string, graph *Graph, author, name string, vcfg versionConfig) *Version {
	now := time.Now()
	snapshot := graph.Clone()

	e.mu.Lock()
	number := initialVersionNumber
	if latest := e.latestNumberLocked(workflowID, vcfg.branch); latest != "" {
		number = nextVersionNumber(latest)
	}
	v := &Version{
		ID:            uuid.NewString(),
		WorkflowID:    workflowID,
		VersionNumber: number,
		Name:          name,
		Description:   vcfg.description,
		Graph:         snapshot,
		Author:        author,
		CreatedAt:     now,
		ParentID:      vcfg.parentID,
		Branch:        vcfg.branch,
		Metadata:      ComputeMetadata(snapshot, now),
	}
	e.versions[v.ID] = v
	e.versionOrder[workflowID] = append(e.versionOrder[workflowID], v.ID)
	previous := e.activateLocked(workflowID, v)
	// Snapshot before releasing e.mu: the stored records stay mutable
	// (tagging, deactivation) and must not be read unlocked.
	out := v.clone()
	prev := previous.clone()
	e.mu.Unlock()

	e.archiveVersion(out)
	if prev != nil {
		e.archiveVersion(prev)
	}
	e.archiveActivePointer(workflowID, out.ID)

	observability.LogVersionCreated(e.cfg.logger, workflowID, out.ID, out.VersionNumber, out.Branch)
	e.cfg.metrics.RecordVersionCreated(ctx, out.Branch, out.Metadata.NodeCount, out.Metadata.EdgeCount)
	e.publish(event.New(event.TypeVersionCreated, workflowID, out.clone()))
	e.publish(event.New(event.TypeActiveVersionChanged, workflowID, out.ID))
	return out
}

// latestNumberLocked returns the highest version number on a branch,
// or "". Caller holds e.mu.
func (e *Engine) latestNumberLocked(workflowID, branch string) string {
	latest := ""
	for _, id := range e.versionOrder[workflowID] {
		v := e.versions[id]
		if v.Branch != branch {
			continue
		}
		if latest == "" || compareVersionNumbers(v.VersionNumber, latest) > 0 {
			latest = v.VersionNumber
		}
	}
	return latest
}

// activateLocked makes v the workflow's active version and returns the
// previously active version, if any. Caller holds e.mu.
func (e *Engine) activateLocked(workflowID string, v *Version) *Version {
	var previous *Version
	if prevID, ok := e.active[workflowID]; ok && prevID != v.ID {
		if prev, ok := e.versions[prevID]; ok {
			prev.IsActive = false
			previous = prev
		}
	}
	v.IsActive = true
	e.active[workflowID] = v.ID
	return previous
}

// archiveActivePointer writes the active-version pointer through to
// the archive, outside any engine lock.
func (e *Engine) archiveActivePointer(workflowID, versionID string) {
	if e.cfg.archive == nil {
		return
	}
	if err := e.cfg.archive.SetActiveVersion(workflowID, versionID); err != nil {
		observability.LogArchiveError(e.cfg.logger, "set active version", err)
	}
}

// GetVersion returns the version with the given id, or nil.
// The returned value is a copy; mutating it never affects history.
func (e *Engine) GetVersion(id string) *Version {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.versions[id].clone()
}

// GetWorkflowVersions returns all of a workflow's versions, newest
// first. Versions are committed under a per-workflow lock, so creation
// order is creation-time order.
func (e *Engine) GetWorkflowVersions(workflowID string) []*Version {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := e.versionOrder[workflowID]
	out := make([]*Version, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, e.versions[ids[i]].clone())
	}
	return out
}

// GetActiveVersion returns the workflow's active version, or nil.
func (e *Engine) GetActiveVersion(workflowID string) *Version {
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.active[workflowID]
	if !ok {
		return nil
	}
	return e.versions[id].clone()
}

// SetActiveVersion activates a version for its workflow. Returns false
// without mutating anything if the version is unknown or belongs to a
// different workflow.
func (e *Engine) SetActiveVersion(ctx context.Context, workflowID, versionID string) bool {
	lock := e.workflowLock(workflowID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	v, ok := e.versions[versionID]
	if !ok || v.WorkflowID != workflowID {
		e.mu.Unlock()
		return false
	}
	previous := e.activateLocked(workflowID, v)
	out := v.clone()
	prev := previous.clone()
	e.mu.Unlock()

	e.archiveVersion(out)
	if prev != nil {
		e.archiveVersion(prev)
	}
	e.archiveActivePointer(workflowID, versionID)
	observability.LogActiveVersionChanged(e.cfg.logger, workflowID, versionID)
	e.publish(event.New(event.TypeActiveVersionChanged, workflowID, versionID))
	return true
}

// TagVersion adds a free-form label to a version. Tagging is
// idempotent: re-adding an existing tag is a no-op, not an error.
// Returns false only if the version is unknown.
func (e *Engine) TagVersion(versionID, tag string) bool {
	e.mu.Lock()
	v, ok := e.versions[versionID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	if v.HasTag(tag) {
		e.mu.Unlock()
		return true
	}
	v.Tags = append(v.Tags, tag)
	out := v.clone()
	e.mu.Unlock()

	e.archiveVersion(out)
	return true
}

// GetVersionsByTag returns a workflow's versions carrying the given
// tag, newest first.
func (e *Engine) GetVersionsByTag(workflowID, tag string) []*Version {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := e.versionOrder[workflowID]
	out := make([]*Version, 0)
	for i := len(ids) - 1; i >= 0; i-- {
		if v := e.versions[ids[i]]; v.HasTag(tag) {
			out = append(out, v.clone())
		}
	}
	return out
}

// CreateBranch forks a named branch from a base version. The head
// starts at the base. Returns nil if the base version is unknown, does
// not belong to the workflow, or the name is already taken.
func (e *Engine) CreateBranch(ctx context.Context, workflowID, name, baseVersionID, author string, opts ...BranchOption) *Branch {
	bcfg := branchConfig{}
	for _, opt := range opts {
		opt(&bcfg)
	}

	lock := e.workflowLock(workflowID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	base, ok := e.versions[baseVersionID]
	if !ok || base.WorkflowID != workflowID {
		e.mu.Unlock()
		return nil
	}
	if _, taken := e.branchNames[workflowID][name]; taken {
		e.mu.Unlock()
		return nil
	}
	now := time.Now()
	b := &Branch{
		ID:            uuid.NewString(),
		Name:          name,
		WorkflowID:    workflowID,
		BaseVersionID: baseVersionID,
		HeadVersionID: baseVersionID,
		CreatedAt:     now,
		LastActivity:  now,
		Author:        author,
		Description:   bcfg.description,
		IsActive:      true,
	}
	e.branches[b.ID] = b
	if e.branchNames[workflowID] == nil {
		e.branchNames[workflowID] = make(map[string]string)
	}
	e.branchNames[workflowID][name] = b.ID
	out := b.clone()
	e.mu.Unlock()

	e.archiveBranch(out)
	observability.LogBranchCreated(e.cfg.logger, workflowID, out.ID, name)
	e.publish(event.New(event.TypeBranchCreated, workflowID, out.clone()))
	return out
}

// GetBranch returns a workflow's branch by name, or nil.
func (e *Engine) GetBranch(workflowID, name string) *Branch {
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.branchNames[workflowID][name]
	if !ok {
		return nil
	}
	return e.branches[id].clone()
}

// GetWorkflowBranches returns a workflow's branches, most recently
// active first.
func (e *Engine) GetWorkflowBranches(workflowID string) []*Branch {
	e.mu.RLock()
	out := make([]*Branch, 0)
	for _, id := range e.branchNames[workflowID] {
		out = append(out, e.branches[id].clone())
	}
	e.mu.RUnlock()

	sortBranchesByActivity(out)
	return out
}

// UpdateBranchHead advances a branch to a new head version and bumps
// its activity time. Returns false without mutating anything if the
// branch or version is unknown, or the version belongs to a different
// workflow than the branch.
func (e *Engine) UpdateBranchHead(ctx context.Context, branchID, versionID string) bool {
	e.mu.RLock()
	b, ok := e.branches[branchID]
	var workflowID string
	if ok {
		workflowID = b.WorkflowID
	}
	e.mu.RUnlock()
	if !ok {
		return false
	}

	lock := e.workflowLock(workflowID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	ok = e.updateBranchHeadLocked(branchID, versionID)
	if !ok {
		e.mu.Unlock()
		return false
	}
	out := e.branches[branchID].clone()
	e.mu.Unlock()

	e.archiveBranch(out)
	e.publish(event.New(event.TypeBranchUpdated, out.WorkflowID, out))
	return true
}

// updateBranchHeadLocked moves a branch head. Caller holds e.mu.
func (e *Engine) updateBranchHeadLocked(branchID, versionID string) bool {
	b, ok := e.branches[branchID]
	if !ok {
		return false
	}
	v, ok := e.versions[versionID]
	if !ok || v.WorkflowID != b.WorkflowID {
		return false
	}
	b.HeadVersionID = versionID
	b.LastActivity = time.Now()
	return true
}

// RecordChange appends one structural edit to a version's audit log.
// The change receives an id and timestamp. Returns the recorded change,
// or nil if the version is unknown.
func (e *Engine) RecordChange(ctx context.Context, versionID string, ch Change) *Change {
	e.mu.Lock()
	v, ok := e.versions[versionID]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	ch.ID = uuid.NewString()
	ch.VersionID = versionID
	ch.Timestamp = time.Now()
	stored := ch
	e.changes[versionID] = append(e.changes[versionID], &stored)
	e.mu.Unlock()

	e.archiveChange(&stored)
	e.publish(event.New(event.TypeChangeRecorded, v.WorkflowID, stored))
	out := stored
	return &out
}

// GetVersionChanges returns a version's recorded changes in append
// order. Returns nil for an unknown version, an empty slice for a
// known version with no changes.
func (e *Engine) GetVersionChanges(versionID string) []*Change {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.versions[versionID]; !ok {
		return nil
	}
	log := e.changes[versionID]
	out := make([]*Change, 0, len(log))
	for _, ch := range log {
		c := *ch
		out = append(out, &c)
	}
	return out
}

// CompareVersions computes the structural diff from version A (base)
// to version B (target). Returns nil if either id is unknown. The
// output is deterministic: the same pair always yields the same diff,
// order included.
func (e *Engine) CompareVersions(ctx context.Context, versionAID, versionBID string) *Diff {
	done := observability.TimedOperation()
	ctx, span := e.cfg.spans.StartOperationSpan(ctx, "compare_versions", "")
	defer e.cfg.spans.EndSpanWithError(span, nil)

	e.mu.RLock()
	a, okA := e.versions[versionAID]
	b, okB := e.versions[versionBID]
	var ga, gb *Graph
	var sameChecksum bool
	if okA && okB {
		ga = a.Graph.Clone()
		gb = b.Graph.Clone()
		sameChecksum = a.Metadata.Checksum == b.Metadata.Checksum
	}
	e.mu.RUnlock()
	if !okA || !okB {
		return nil
	}

	var d *Diff
	if sameChecksum && string(ga.canonical()) == string(gb.canonical()) {
		// Checksum fast path, confirmed structurally.
		d = diffGraphs(&Graph{}, &Graph{})
	} else {
		d = diffGraphs(ga, gb)
	}
	d.VersionAID = versionAID
	d.VersionBID = versionBID

	durationMs := done()
	observability.LogDiffComputed(e.cfg.logger, versionAID, versionBID, len(d.Changes), durationMs)
	e.cfg.metrics.RecordDiff(ctx, time.Duration(durationMs)*time.Millisecond, len(d.Changes))
	return d
}

// MergeBranches merges the source branch's head into the target
// branch. Structural problems (unknown branch, branches of different
// workflows, missing head) produce a failed result with Error set.
// Conflicts produce a failed result with Conflicts populated and no
// state mutated, an expected outcome rather than an error. A conflict-free
// merge commits a merged version on the target branch, advances its
// head, and succeeds.
func (e *Engine) MergeBranches(ctx context.Context, sourceBranchID, targetBranchID, author string, strategy MergeStrategy) *MergeResult {
	done := observability.TimedOperation()

	e.mu.RLock()
	source, okS := e.branches[sourceBranchID]
	target, okT := e.branches[targetBranchID]
	var workflowID string
	if okS && okT {
		workflowID = target.WorkflowID
	}
	e.mu.RUnlock()

	switch {
	case !okS:
		return e.mergeError(sourceBranchID, targetBranchID, "source branch not found")
	case !okT:
		return e.mergeError(sourceBranchID, targetBranchID, "target branch not found")
	case source.WorkflowID != target.WorkflowID:
		return e.mergeError(sourceBranchID, targetBranchID, "branches belong to different workflows")
	}

	ctx, span := e.cfg.spans.StartOperationSpan(ctx, "merge_branches", workflowID)
	defer e.cfg.spans.EndSpanWithError(span, nil)

	lock := e.workflowLock(workflowID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	source = e.branches[sourceBranchID]
	target = e.branches[targetBranchID]
	sourceHead, okSH := e.versions[source.HeadVersionID]
	targetHead, okTH := e.versions[target.HeadVersionID]
	var sourceGraph, targetGraph *Graph
	if okSH && okTH {
		sourceGraph = sourceHead.Graph.Clone()
		targetGraph = targetHead.Graph.Clone()
	}
	sourceName, targetName := source.Name, target.Name
	targetHeadID := target.HeadVersionID
	e.mu.Unlock()

	if !okSH {
		return e.mergeError(sourceBranchID, targetBranchID, "source branch head version not found")
	}
	if !okTH {
		return e.mergeError(sourceBranchID, targetBranchID, "target branch head version not found")
	}

	// Two-way classification: target head as A, source head as B.
	diff := diffGraphs(targetGraph, sourceGraph)
	conflicts := classifyConflicts(diff)

	if len(conflicts) > 0 {
		e.mu.Lock()
		for i := range conflicts {
			c := conflicts[i]
			e.conflicts[c.ID] = &c
		}
		e.mu.Unlock()

		observability.LogMergeConflicts(e.cfg.logger, sourceName, targetName, len(conflicts))
		e.cfg.metrics.RecordMerge(ctx, false, len(conflicts), time.Duration(done())*time.Millisecond)
		return &MergeResult{
			Success:   false,
			Conflicts: conflicts,
			Changes:   diff.Changes,
		}
	}

	merged := synthesizeMerge(targetGraph, sourceGraph)
	v := e.createVersionLocked(ctx, workflowID, merged, author, fmt.Sprintf("Merge %s into %s", sourceName, targetName), versionConfig{
		description: fmt.Sprintf("Merged branch %q into %q (%s)", sourceName, targetName, strategy),
		parentID:    targetHeadID,
		branch:      targetName,
	})

	e.mu.Lock()
	e.updateBranchHeadLocked(targetBranchID, v.ID)
	targetSnap := e.branches[targetBranchID].clone()
	e.mu.Unlock()
	e.archiveBranch(targetSnap)
	e.publish(event.New(event.TypeBranchUpdated, workflowID, targetSnap))

	result := &MergeResult{
		Success:         true,
		MergedVersionID: v.ID,
		Conflicts:       []ConflictInfo{},
		Changes:         diff.Changes,
	}

	durationMs := done()
	observability.LogMergeCompleted(e.cfg.logger, sourceName, targetName, v.ID, durationMs)
	e.cfg.metrics.RecordMerge(ctx, true, 0, time.Duration(durationMs)*time.Millisecond)
	e.publish(event.New(event.TypeBranchesMerged, workflowID, result))
	return result
}

func (e *Engine) mergeError(sourceBranchID, targetBranchID, msg string) *MergeResult {
	observability.LogMergeError(e.cfg.logger, sourceBranchID, targetBranchID, msg)
	return &MergeResult{Success: false, Error: msg}
}

// ResolveConflict records the resolution decision for a conflict
// raised by an earlier merge attempt and notifies listeners. It does
// not retry the merge: the caller applies the decision to one side's
// graph and merges again. Returns false if the conflict is unknown.
func (e *Engine) ResolveConflict(ctx context.Context, conflictID string, resolution Resolution, customValue any, resolvedBy string) bool {
	e.mu.Lock()
	c, ok := e.conflicts[conflictID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	now := time.Now()
	c.Resolution = resolution
	c.CustomValue = customValue
	c.ResolvedBy = resolvedBy
	c.ResolvedAt = &now
	resolved := *c
	e.mu.Unlock()

	e.publish(event.New(event.TypeConflictResolved, "", resolved))
	return true
}

// GetConflict returns a recorded conflict by id, or nil.
func (e *Engine) GetConflict(conflictID string) *ConflictInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.conflicts[conflictID]
	if !ok {
		return nil
	}
	out := *c
	return &out
}

// RollbackToVersion restores a historical version's graph by appending
// a new version; history is never truncated or rewritten. The new
// version lands on the target's original branch, with the workflow's
// current active version as parent, and becomes active. Returns nil if
// the version is unknown or belongs to a different workflow.
func (e *Engine) RollbackToVersion(ctx context.Context, workflowID, versionID, author string) *Version {
	ctx, span := e.cfg.spans.StartOperationSpan(ctx, "rollback", workflowID)
	defer e.cfg.spans.EndSpanWithError(span, nil)

	lock := e.workflowLock(workflowID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.RLock()
	target, ok := e.versions[versionID]
	var graph *Graph
	var name, branch, parentID string
	if ok && target.WorkflowID == workflowID {
		graph = target.Graph.Clone()
		name = target.Name
		branch = target.Branch
		parentID = e.active[workflowID]
	} else {
		ok = false
	}
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	v := e.createVersionLocked(ctx, workflowID, graph, author, "Rollback to "+name, versionConfig{
		parentID: parentID,
		branch:   branch,
	})

	observability.LogRollback(e.cfg.logger, workflowID, versionID, v.ID)
	e.cfg.metrics.RecordRollback(ctx)
	e.publish(event.New(event.TypeRollbackPerformed, workflowID, v.clone()))
	return v
}

// archiveVersion writes a version record through to the archive.
// Failures are logged and swallowed: durability is best effort, the
// in-memory state is the authority. Callers pass a snapshot taken
// under e.mu, never the live stored record, since marshaling here
// runs unlocked.
func (e *Engine) archiveVersion(v *Version) {
	if e.cfg.archive == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		observability.LogArchiveError(e.cfg.logger, "encode version", err)
		return
	}
	if err := e.cfg.archive.SaveVersion(v.WorkflowID, v.ID, data); err != nil {
		observability.LogArchiveError(e.cfg.logger, "save version", &ArchiveError{Op: "save version", Key: v.ID, Err: err})
	}
}

func (e *Engine) archiveBranch(b *Branch) {
	if e.cfg.archive == nil {
		return
	}
	data, err := json.Marshal(b)
	if err != nil {
		observability.LogArchiveError(e.cfg.logger, "encode branch", err)
		return
	}
	if err := e.cfg.archive.SaveBranch(b.WorkflowID, b.ID, data); err != nil {
		observability.LogArchiveError(e.cfg.logger, "save branch", &ArchiveError{Op: "save branch", Key: b.ID, Err: err})
	}
}

func (e *Engine) archiveChange(ch *Change) {
	if e.cfg.archive == nil {
		return
	}
	data, err := json.Marshal(ch)
	if err != nil {
		observability.LogArchiveError(e.cfg.logger, "encode change", err)
		return
	}
	if err := e.cfg.archive.SaveChange(ch.VersionID, ch.ID, data); err != nil {
		observability.LogArchiveError(e.cfg.logger, "save change", &ArchiveError{Op: "save change", Key: ch.ID, Err: err})
	}
}

// sortBranchesByActivity orders branches most recently active first,
// ties broken by name for stable output.
func sortBranchesByActivity(branches []*Branch) {
	sort.SliceStable(branches, func(i, j int) bool {
		if !branches[i].LastActivity.Equal(branches[j].LastActivity) {
			return branches[i].LastActivity.After(branches[j].LastActivity)
		}
		return branches[i].Name < branches[j].Name
	})
}
