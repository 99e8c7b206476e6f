package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteArchive persists engine records to SQLite.
// It is suitable for single-process production use.
type SQLiteArchive struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteArchive creates a new SQLite archive.
// The path should be a file path (e.g., "./history.db") or ":memory:" for testing.
func NewSQLiteArchive(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS versions (
			version_id  TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			seq         INTEGER NOT NULL,
			data        BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_versions_workflow ON versions(workflow_id, seq)`,
		`CREATE TABLE IF NOT EXISTS branches (
			branch_id   TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			seq         INTEGER NOT NULL,
			data        BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_branches_workflow ON branches(workflow_id, seq)`,
		`CREATE TABLE IF NOT EXISTS changes (
			change_id  TEXT PRIMARY KEY,
			version_id TEXT NOT NULL,
			seq        INTEGER NOT NULL,
			data       BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_version ON changes(version_id, seq)`,
		`CREATE TABLE IF NOT EXISTS active_versions (
			workflow_id TEXT PRIMARY KEY,
			version_id  TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &SQLiteArchive{db: db}, nil
}

// SaveVersion implements Archive.
func (s *SQLiteArchive) SaveVersion(workflowID, versionID string, data []byte) error {
	return s.save("versions", "version_id", "workflow_id", versionID, workflowID, data)
}

// Version implements Archive.
func (s *SQLiteArchive) Version(versionID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrArchiveClosed
	}

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM versions WHERE version_id = ?`, versionID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}
	return data, nil
}

// WorkflowVersions implements Archive.
func (s *SQLiteArchive) WorkflowVersions(workflowID string) ([][]byte, error) {
	return s.list("versions", "workflow_id", workflowID)
}

// SaveBranch implements Archive.
func (s *SQLiteArchive) SaveBranch(workflowID, branchID string, data []byte) error {
	return s.save("branches", "branch_id", "workflow_id", branchID, workflowID, data)
}

// WorkflowBranches implements Archive.
func (s *SQLiteArchive) WorkflowBranches(workflowID string) ([][]byte, error) {
	return s.list("branches", "workflow_id", workflowID)
}

// SaveChange implements Archive.
func (s *SQLiteArchive) SaveChange(versionID, changeID string, data []byte) error {
	return s.save("changes", "change_id", "version_id", changeID, versionID, data)
}

// VersionChanges implements Archive.
func (s *SQLiteArchive) VersionChanges(versionID string) ([][]byte, error) {
	return s.list("changes", "version_id", versionID)
}

// SetActiveVersion implements Archive.
func (s *SQLiteArchive) SetActiveVersion(workflowID, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrArchiveClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO active_versions (workflow_id, version_id) VALUES (?, ?)
		ON CONFLICT(workflow_id) DO UPDATE SET version_id = excluded.version_id
	`, workflowID, versionID)
	if err != nil {
		return fmt.Errorf("set active version: %w", err)
	}
	return nil
}

// ActiveVersion implements Archive.
func (s *SQLiteArchive) ActiveVersion(workflowID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrArchiveClosed
	}

	var id string
	err := s.db.QueryRow(`SELECT version_id FROM active_versions WHERE workflow_id = ?`, workflowID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load active version: %w", err)
	}
	return id, nil
}

// Close implements Archive.
func (s *SQLiteArchive) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// save upserts one record, assigning a per-parent sequence on insert so
// listings preserve insertion order.
func (s *SQLiteArchive) save(table, idCol, parentCol, id, parent string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrArchiveClosed
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, seq, data)
		VALUES (
			?, ?,
			COALESCE((SELECT MAX(seq) FROM %[1]s WHERE %[3]s = ?), 0) + 1,
			?
		)
		ON CONFLICT(%[2]s) DO UPDATE SET data = excluded.data
	`, table, idCol, parentCol)

	if _, err := s.db.Exec(query, id, parent, parent, data); err != nil {
		return fmt.Errorf("save %s record: %w", table, err)
	}
	return nil
}

// list returns all records under one parent key in insertion order.
func (s *SQLiteArchive) list(table, parentCol, parent string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrArchiveClosed
	}

	query := fmt.Sprintf(`SELECT data FROM %s WHERE %s = ? ORDER BY seq`, table, parentCol)
	rows, err := s.db.Query(query, parent)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", table, err)
	}
	defer rows.Close()

	out := make([][]byte, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s record: %w", table, err)
		}
		out = append(out, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s records: %w", table, err)
	}
	return out, nil
}
