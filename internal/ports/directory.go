package ports

import (
	"context"

	"managerof/internal/domain"
)

// RecordIterator walks the records of one enumeration. It is forward-only
// and cannot be restarted; callers must Close it on every path.
type RecordIterator interface {
	// Next advances to the next record, returning false when the
	// enumeration is exhausted or failed. Check Err afterwards.
	Next() bool

	// Record returns the current record. Only valid after Next returned true.
	Record() domain.Record

	// Err returns the error that stopped the enumeration, if any.
	Err() error

	// Close releases server-side state held by the enumeration.
	Close() error
}

// RecordSource enumerates person records that carry a manager reference.
type RecordSource interface {
	Records(ctx context.Context) (RecordIterator, error)
}

// ManagerLookup fetches the raw security identifier of a single entry by
// its distinguished name.
type ManagerLookup interface {
	LookupSID(ctx context.Context, dn string) ([]byte, error)
}

// Directory is a connected directory session.
type Directory interface {
	RecordSource
	ManagerLookup
	Close() error
}

// DirectoryOpener opens a directory session on demand. Used by surfaces
// that run several exports over their lifetime.
type DirectoryOpener func(ctx context.Context) (Directory, error)

// DirectoryWriter populates a directory with a generated hierarchy.
type DirectoryWriter interface {
	// EnsureContainer creates the organizational unit if it is missing.
	EnsureContainer(ctx context.Context, dn string) error

	// AddPerson creates a user entry and returns its distinguished name.
	AddPerson(ctx context.Context, containerDN string, p domain.Person) (string, error)

	// SetManager points the entry at dn to its manager.
	SetManager(ctx context.Context, dn, managerDN string) error
}
