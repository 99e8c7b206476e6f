package store

import "sync"

// MemoryArchive is an in-memory archive for testing.
// Data is lost when the process exits.
type MemoryArchive struct {
	mu     sync.RWMutex
	closed bool

	versions map[string]record   // versionID -> record
	byWf     map[string][]string // workflowID -> versionIDs, insertion order

	branches   map[string]record
	branchesWf map[string][]string

	changes   map[string]record
	changeLog map[string][]string // versionID -> changeIDs, insertion order

	active map[string]string // workflowID -> versionID
}

type record struct {
	data []byte
}

// NewMemoryArchive creates a new in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		versions:   make(map[string]record),
		byWf:       make(map[string][]string),
		branches:   make(map[string]record),
		branchesWf: make(map[string][]string),
		changes:    make(map[string]record),
		changeLog:  make(map[string][]string),
		active:     make(map[string]string),
	}
}

// SaveVersion implements Archive.
func (m *MemoryArchive) SaveVersion(workflowID, versionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrArchiveClosed
	}
	if _, ok := m.versions[versionID]; !ok {
		m.byWf[workflowID] = append(m.byWf[workflowID], versionID)
	}
	m.versions[versionID] = record{data: copyBytes(data)}
	return nil
}

// Version implements Archive.
func (m *MemoryArchive) Version(versionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrArchiveClosed
	}
	rec, ok := m.versions[versionID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBytes(rec.data), nil
}

// WorkflowVersions implements Archive.
func (m *MemoryArchive) WorkflowVersions(workflowID string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrArchiveClosed
	}
	ids := m.byWf[workflowID]
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyBytes(m.versions[id].data))
	}
	return out, nil
}

// SaveBranch implements Archive.
func (m *MemoryArchive) SaveBranch(workflowID, branchID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrArchiveClosed
	}
	if _, ok := m.branches[branchID]; !ok {
		m.branchesWf[workflowID] = append(m.branchesWf[workflowID], branchID)
	}
	m.branches[branchID] = record{data: copyBytes(data)}
	return nil
}

// WorkflowBranches implements Archive.
func (m *MemoryArchive) WorkflowBranches(workflowID string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrArchiveClosed
	}
	ids := m.branchesWf[workflowID]
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyBytes(m.branches[id].data))
	}
	return out, nil
}

// SaveChange implements Archive.
func (m *MemoryArchive) SaveChange(versionID, changeID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrArchiveClosed
	}
	if _, ok := m.changes[changeID]; !ok {
		m.changeLog[versionID] = append(m.changeLog[versionID], changeID)
	}
	m.changes[changeID] = record{data: copyBytes(data)}
	return nil
}

// VersionChanges implements Archive.
func (m *MemoryArchive) VersionChanges(versionID string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrArchiveClosed
	}
	ids := m.changeLog[versionID]
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyBytes(m.changes[id].data))
	}
	return out, nil
}

// SetActiveVersion implements Archive.
func (m *MemoryArchive) SetActiveVersion(workflowID, versionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrArchiveClosed
	}
	m.active[workflowID] = versionID
	return nil
}

// ActiveVersion implements Archive.
func (m *MemoryArchive) ActiveVersion(workflowID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", ErrArchiveClosed
	}
	id, ok := m.active[workflowID]
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

// Close implements Archive.
func (m *MemoryArchive) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored version records. Test helper.
func (m *MemoryArchive) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.versions)
}

// copyBytes copies data to avoid retaining or exposing caller slices.
func copyBytes(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
