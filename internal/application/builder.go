package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

// BuildStats summarizes one pass over the record stream
type BuildStats struct {
	Records             int // records enumerated
	Edges               int // edges emitted
	MissingIdentifier   int // skipped: no or corrupt objectSid
	UnresolvableManager int // skipped: manager reference did not resolve
	Malformed           int // skipped: unexpected per-record failure
	Lookups             int // directory round-trips for manager references
	DistinctManagers    int // distinct manager references seen
}

// Skipped returns the number of records that produced no edge
func (s BuildStats) Skipped() int {
	return s.MissingIdentifier + s.UnresolvableManager + s.Malformed
}

func (s *BuildStats) countSkip(err error) {
	switch {
	case errors.Is(err, ErrUnresolvableManager):
		s.UnresolvableManager++
	case errors.Is(err, ErrMissingIdentifier), errors.Is(err, ErrCorruptIdentifier):
		s.MissingIdentifier++
	default:
		s.Malformed++
	}
}

// Builder turns a record stream into a ManagerOf graph document
type Builder struct {
	resolver *Resolver
}

// NewBuilder creates a Builder that resolves identities through resolver
func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build consumes the iterator and returns one edge per record whose own
// identifier and manager reference both resolve. Records that fail are
// skipped and counted. If the stream yields no records at all, Build
// returns ErrEmptyResultSet together with the (zero) stats.
func (b *Builder) Build(ctx context.Context, it ports.RecordIterator) (*domain.GraphDocument, BuildStats, error) {
	log := zerolog.Ctx(ctx)

	var stats BuildStats
	edges := []domain.Edge{}

	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		rec := it.Record()
		stats.Records++

		edge, err := b.process(ctx, rec)
		if err != nil {
			stats.countSkip(err)
			log.Debug().Err(err).Str("dn", rec.DN).Msg("skipping record")
			continue
		}

		edges = append(edges, edge)
	}
	if err := it.Err(); err != nil {
		return nil, stats, fmt.Errorf("enumerate records: %w", err)
	}

	stats.Edges = len(edges)
	stats.Lookups = b.resolver.Lookups()
	stats.DistinctManagers = b.resolver.CacheSize()

	if stats.Records == 0 {
		return nil, stats, ErrEmptyResultSet
	}

	return domain.NewGraphDocument(edges), stats, nil
}

// process resolves one record into its edge. Panics from malformed
// attributes are downgraded to a RecordError so the stream continues.
func (b *Builder) process(ctx context.Context, rec domain.Record) (edge domain.Edge, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &RecordError{DN: rec.DN, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, p)}
		}
	}()

	self, err := b.resolver.ResolveSelf(rec)
	if err != nil {
		return domain.Edge{}, &RecordError{DN: rec.DN, Err: err}
	}

	manager, err := b.resolver.ResolveManager(ctx, rec.Manager)
	if err != nil {
		return domain.Edge{}, &RecordError{DN: rec.DN, Err: err}
	}

	return domain.NewManagerOfEdge(manager, self), nil
}
