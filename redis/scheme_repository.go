package redis

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/lrc"
)

// listStore is the subset of Redis list commands the repository uses.
type listStore interface {
	RPush(ctx context.Context, key string, values ...any) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

type clientList struct {
	client *redis.Client
}

func (c clientList) RPush(ctx context.Context, key string, values ...any) error {
	return c.client.RPush(ctx, key, values...).Err()
}

func (c clientList) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	r, err := c.client.LRange(ctx, key, start, stop).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return r, err
}

// pageSize bounds how many list elements a lookup fetches per round trip.
const pageSize = 256

// SchemeRepository appends scheme records to a Redis list and scans it head to tail on lookup.
type SchemeRepository struct {
	conn    *Connection
	isOwner bool
	list    listStore
	key     string
	matcher lrc.Matcher
}

// NewSchemeRepository uses the singleton connection, which must be open.
func NewSchemeRepository(key string, matcher lrc.Matcher) (*SchemeRepository, error) {
	if connection == nil {
		return nil, fmt.Errorf("Redis connection is not open, 'can't create new scheme repository")
	}
	return newSchemeRepository(connection, false, key, matcher), nil
}

// NewConnectionSchemeRepository opens a dedicated connection owned by the returned repository.
func NewConnectionSchemeRepository(options Options, key string, matcher lrc.Matcher) (*SchemeRepository, error) {
	c, err := openConnection(options)
	if err != nil {
		return nil, err
	}
	return newSchemeRepository(c, true, key, matcher), nil
}

func newSchemeRepository(c *Connection, isOwner bool, key string, matcher lrc.Matcher) *SchemeRepository {
	sr := newListSchemeRepository(clientList{client: c.Client}, key, matcher)
	sr.conn = c
	sr.isOwner = isOwner
	return sr
}

func newListSchemeRepository(list listStore, key string, matcher lrc.Matcher) *SchemeRepository {
	if key == "" {
		key = DefaultKey
	}
	if matcher == nil {
		matcher = lrc.NewFieldMatcher()
	}
	return &SchemeRepository{
		list:    list,
		key:     key,
		matcher: matcher,
	}
}

// Add appends r to the tail of the list.
func (sr *SchemeRepository) Add(ctx context.Context, r lrc.Record) error {
	ba, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := lrc.Retry(ctx, func(ctx context.Context) error {
		return sr.list.RPush(ctx, sr.key, string(ba))
	}, nil); err != nil {
		return lrc.NewError(lrc.RepositoryFailure, fmt.Errorf("redis RPUSH %s failed, details: %w", sr.key, err), r)
	}
	return nil
}

// Lookup pages through the list in insertion order and returns the first matching record.
// Elements that don't decode are skipped.
func (sr *SchemeRepository) Lookup(ctx context.Context, q lrc.Query) (lrc.Record, bool, error) {
	for start := int64(0); ; start += pageSize {
		var page []string
		if err := lrc.Retry(ctx, func(ctx context.Context) error {
			var err error
			page, err = sr.list.LRange(ctx, sr.key, start, start+pageSize-1)
			return err
		}, nil); err != nil {
			return lrc.Record{}, false, lrc.NewError(lrc.RepositoryFailure, fmt.Errorf("redis LRANGE %s failed, details: %w", sr.key, err), q)
		}
		records := make([]lrc.Record, 0, len(page))
		for _, s := range page {
			var r lrc.Record
			if err := json.Unmarshal([]byte(s), &r); err != nil {
				log.Warn("skipping undecodable scheme record", "key", sr.key, "error", err)
				continue
			}
			records = append(records, r)
		}
		r, ok, err := lrc.FirstMatch(records, q, sr.matcher)
		if err != nil || ok {
			return r, ok, err
		}
		if len(page) < pageSize {
			return lrc.Record{}, false, nil
		}
	}
}

// Close closes the connection if this repository owns it.
func (sr *SchemeRepository) Close() error {
	if !sr.isOwner || sr.conn == nil {
		return nil
	}
	err := closeConnection(sr.conn)
	sr.conn = nil
	return err
}
