package sqlite

import (
	"database/sql"

	"managerof/internal/domain"
)

// indexTx groups edge updates into one transaction
type indexTx struct {
	tx *sql.Tx
}

// DeleteEdges removes every stored edge
func (t *indexTx) DeleteEdges() error {
	_, err := t.tx.Exec(`DELETE FROM edges`)
	return err
}

// InsertEdge adds an edge
func (t *indexTx) InsertEdge(edge *domain.Edge) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO edges (kind, start_sid, end_sid)
		VALUES (?, ?, ?)
	`, edge.Kind, edge.Start.Value, edge.End.Value)
	return err
}

// SetMeta stores a metadata value
func (t *indexTx) SetMeta(key, value string) error {
	_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
