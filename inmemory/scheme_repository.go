// Package inmemory provides a process local scheme repository, used by tests and by the
// REST API when no persistent backend is configured.
package inmemory

import (
	"context"
	"sync"

	"github.com/sharedcode/lrc"
)

// SchemeRepository keeps records in insertion order behind a mutex.
type SchemeRepository struct {
	lock    sync.RWMutex
	records []lrc.Record
	matcher lrc.Matcher
}

// NewSchemeRepository returns an empty repository. A nil matcher means plain field equality.
func NewSchemeRepository(matcher lrc.Matcher, records ...lrc.Record) *SchemeRepository {
	if matcher == nil {
		matcher = lrc.NewFieldMatcher()
	}
	return &SchemeRepository{
		records: append([]lrc.Record(nil), records...),
		matcher: matcher,
	}
}

func (sr *SchemeRepository) Lookup(ctx context.Context, q lrc.Query) (lrc.Record, bool, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return lrc.FirstMatch(sr.records, q, sr.matcher)
}

func (sr *SchemeRepository) Add(ctx context.Context, r lrc.Record) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.records = append(sr.records, r)
	return nil
}

// GetAll returns a copy of the records in insertion order.
func (sr *SchemeRepository) GetAll(ctx context.Context) ([]lrc.Record, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return append([]lrc.Record(nil), sr.records...), nil
}

func (sr *SchemeRepository) Close() error {
	return nil
}
