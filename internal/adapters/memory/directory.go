// Package memory provides an in-process directory for exercising the export
// pipeline without a server. It mimics the behavior of the LDAP adapter.
package memory

import (
	"context"
	"errors"
	"fmt"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

// ErrNoSuchEntry is returned by LookupSID for unknown distinguished names
var ErrNoSuchEntry = errors.New("no such entry")

// Directory is an in-memory ports.Directory
type Directory struct {
	records    []domain.Record
	entries    map[string][]byte
	containers map[string]bool
	nextRID    uint32

	failures map[string]error
	enumErr  error

	lookups map[string]int
	closed  bool
}

// Ensure Directory implements ports.Directory and ports.DirectoryWriter
var (
	_ ports.Directory       = (*Directory)(nil)
	_ ports.DirectoryWriter = (*Directory)(nil)
)

// seededDomainSID prefixes the SIDs assigned to people added with AddPerson
const seededDomainSID = "S-1-5-21-1004336348-1177238915-682003330"

// Option configures the Directory
type Option func(*Directory)

// WithEntry registers an entry that LookupSID can find
func WithEntry(dn string, sid []byte) Option {
	return func(d *Directory) {
		d.entries[dn] = sid
	}
}

// WithLookupError makes LookupSID fail for dn
func WithLookupError(dn string, err error) Option {
	return func(d *Directory) {
		d.failures[dn] = err
	}
}

// WithEnumerationError makes the record iterator fail after the last record
func WithEnumerationError(err error) Option {
	return func(d *Directory) {
		d.enumErr = err
	}
}

// NewDirectory creates a Directory that enumerates records in order
func NewDirectory(records []domain.Record, opts ...Option) *Directory {
	d := &Directory{
		records:    records,
		entries:    make(map[string][]byte),
		containers: make(map[string]bool),
		nextRID:    1100,
		failures:   make(map[string]error),
		lookups:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Records returns an iterator over the records that carry a manager
// reference, in insertion order
func (d *Directory) Records(ctx context.Context) (ports.RecordIterator, error) {
	var matched []domain.Record
	for _, r := range d.records {
		if r.HasManager() {
			matched = append(matched, r)
		}
	}
	return &iterator{records: matched, pos: -1, err: d.enumErr}, nil
}

// LookupSID returns the SID registered for dn
func (d *Directory) LookupSID(ctx context.Context, dn string) ([]byte, error) {
	d.lookups[dn]++
	if err, ok := d.failures[dn]; ok {
		return nil, err
	}
	sid, ok := d.entries[dn]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, dn)
	}
	return sid, nil
}

// EnsureContainer registers a container
func (d *Directory) EnsureContainer(ctx context.Context, dn string) error {
	d.containers[dn] = true
	return nil
}

// AddPerson stores a person under containerDN and assigns it a fresh SID
func (d *Directory) AddPerson(ctx context.Context, containerDN string, p domain.Person) (string, error) {
	if !d.containers[containerDN] {
		return "", fmt.Errorf("%w: %s", ErrNoSuchEntry, containerDN)
	}
	dn := fmt.Sprintf("CN=%s,%s", p.CommonName, containerDN)
	if _, exists := d.entries[dn]; exists {
		return "", fmt.Errorf("entry already exists: %s", dn)
	}

	sid := domain.MustParseSID(fmt.Sprintf("%s-%d", seededDomainSID, d.nextRID))
	d.nextRID++

	d.entries[dn] = sid
	d.records = append(d.records, domain.Record{DN: dn, SID: sid})
	return dn, nil
}

// SetManager sets the manager reference of the record at dn
func (d *Directory) SetManager(ctx context.Context, dn, managerDN string) error {
	for i := range d.records {
		if d.records[i].DN == dn {
			d.records[i].Manager = managerDN
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoSuchEntry, dn)
}

// Close marks the directory closed. The contents stay readable, so the same
// Directory can stand in for several sessions against one server.
func (d *Directory) Close() error {
	d.closed = true
	return nil
}

// Closed reports whether Close was called
func (d *Directory) Closed() bool {
	return d.closed
}

// LookupCount returns how many times dn was looked up
func (d *Directory) LookupCount(dn string) int {
	return d.lookups[dn]
}

// TotalLookups returns the number of LookupSID calls across all names
func (d *Directory) TotalLookups() int {
	total := 0
	for _, n := range d.lookups {
		total += n
	}
	return total
}

type iterator struct {
	records []domain.Record
	pos     int
	err     error
	closed  bool
}

func (it *iterator) Next() bool {
	if it.closed || it.pos+1 >= len(it.records) {
		it.pos = len(it.records)
		return false
	}
	it.pos++
	return true
}

func (it *iterator) Record() domain.Record {
	return it.records[it.pos]
}

func (it *iterator) Err() error {
	if it.pos >= len(it.records) {
		return it.err
	}
	return nil
}

func (it *iterator) Close() error {
	it.closed = true
	return nil
}
