package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

const schemaVersion = "1"

// Index implements ports.EdgeIndex using SQLite
type Index struct {
	db   *sql.DB
	path string
}

// Ensure Index implements EdgeIndex
var _ ports.EdgeIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open creates or opens the index database at path
func (idx *Index) Open(path string) error {
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	idx.path = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS edges (
			kind TEXT NOT NULL,
			start_sid TEXT NOT NULL,
			end_sid TEXT NOT NULL,
			PRIMARY KEY (kind, start_sid, end_sid)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_edges_end ON edges(kind, end_sid);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database location
func (idx *Index) Path() string {
	return idx.path
}

// beginTx starts a transaction for a batch of edge updates
func (idx *Index) beginTx() (*indexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}

// ReplaceEdges swaps the stored edge set for edges in one transaction
func (idx *Index) ReplaceEdges(runID string, edges []domain.Edge) error {
	tx, err := idx.beginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.DeleteEdges(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	for i := range edges {
		if err := tx.InsertEdge(&edges[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert edge: %w", err)
		}
	}
	if err := tx.SetMeta("last_run_id", runID); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.SetMeta("last_run_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// DirectReports returns the SIDs managed by managerSID, sorted
func (idx *Index) DirectReports(managerSID string) ([]string, error) {
	rows, err := idx.db.Query(`
		SELECT end_sid FROM edges
		WHERE kind = ? AND start_sid = ?
		ORDER BY end_sid
	`, domain.KindManagerOf, managerSID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		reports = append(reports, sid)
	}
	return reports, rows.Err()
}

// ManagerOf returns the SID of the manager of sid
func (idx *Index) ManagerOf(sid string) (string, error) {
	var manager string
	err := idx.db.QueryRow(`
		SELECT start_sid FROM edges
		WHERE kind = ? AND end_sid = ?
		ORDER BY start_sid
		LIMIT 1
	`, domain.KindManagerOf, sid).Scan(&manager)

	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no manager recorded for %s", ports.ErrNotIndexed, sid)
	}
	if err != nil {
		return "", err
	}
	return manager, nil
}

// EdgeCount returns the number of stored edges
func (idx *Index) EdgeCount() (int, error) {
	var n int
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&n)
	return n, err
}

// LastRunID returns the run that last replaced the edge set
func (idx *Index) LastRunID() (string, error) {
	var id string
	err := idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_run_id'`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}
