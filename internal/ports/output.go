package ports

import (
	"errors"

	"managerof/internal/domain"
)

// ErrNotIndexed is returned by an EdgeIndex when a SID has no stored edge.
var ErrNotIndexed = errors.New("not in index")

// GraphWriter persists a graph document.
type GraphWriter interface {
	// Write stores doc at path in a single pass. A partially written file
	// must never be left at path.
	Write(path string, doc *domain.GraphDocument) error
}

// EdgeIndex keeps the edges of the latest export queryable.
type EdgeIndex interface {
	// ReplaceEdges swaps the stored edge set for edges atomically.
	ReplaceEdges(runID string, edges []domain.Edge) error

	// DirectReports returns the SIDs managed by managerSID.
	DirectReports(managerSID string) ([]string, error)

	// ManagerOf returns the SID of the manager of sid, or ErrNotIndexed.
	ManagerOf(sid string) (string, error)

	Close() error
}
