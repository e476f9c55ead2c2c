package application

import (
	"context"
	"errors"
	"fmt"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

// resolution is a cached lookup outcome. Exactly one of sid and err is set.
type resolution struct {
	sid string
	err error
}

// Resolver turns records and manager references into canonical security
// identifiers. It owns the reference cache for a single export run and is
// not safe for concurrent use.
type Resolver struct {
	lookup  ports.ManagerLookup
	cache   map[string]resolution
	lookups int
}

// NewResolver creates a Resolver with an empty cache
func NewResolver(lookup ports.ManagerLookup) *Resolver {
	return &Resolver{
		lookup: lookup,
		cache:  make(map[string]resolution),
	}
}

// ResolveSelf returns the canonical identifier of the record itself.
func (r *Resolver) ResolveSelf(rec domain.Record) (string, error) {
	if len(rec.SID) == 0 {
		return "", ErrMissingIdentifier
	}
	sid, err := domain.FormatSID(rec.SID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptIdentifier, err)
	}
	return sid, nil
}

// ResolveManager returns the canonical identifier of the entry a manager
// reference points to. Each distinct reference is looked up at most once;
// failures are cached like successes so a broken reference is never retried
// within the run. Every failure satisfies errors.Is(err, ErrUnresolvableManager).
func (r *Resolver) ResolveManager(ctx context.Context, reference string) (string, error) {
	if res, ok := r.cache[reference]; ok {
		return res.sid, res.err
	}

	res := r.resolve(ctx, reference)
	r.cache[reference] = res
	return res.sid, res.err
}

func (r *Resolver) resolve(ctx context.Context, reference string) (res resolution) {
	if reference == "" {
		return resolution{err: &ResolutionError{Reference: reference, Err: errors.New("empty reference")}}
	}

	r.lookups++
	defer func() {
		if p := recover(); p != nil {
			res = resolution{err: &ResolutionError{Reference: reference, Err: fmt.Errorf("lookup panicked: %v", p)}}
		}
	}()

	raw, err := r.lookup.LookupSID(ctx, reference)
	if err != nil {
		return resolution{err: &ResolutionError{Reference: reference, Err: err}}
	}
	if len(raw) == 0 {
		return resolution{err: &ResolutionError{Reference: reference, Err: ErrMissingIdentifier}}
	}

	sid, err := domain.FormatSID(raw)
	if err != nil {
		return resolution{err: &ResolutionError{Reference: reference, Err: fmt.Errorf("%w: %v", ErrCorruptIdentifier, err)}}
	}
	return resolution{sid: sid}
}

// Lookups returns how many directory lookups the resolver has performed.
func (r *Resolver) Lookups() int {
	return r.lookups
}

// CacheSize returns the number of distinct references seen so far.
func (r *Resolver) CacheSize() int {
	return len(r.cache)
}
