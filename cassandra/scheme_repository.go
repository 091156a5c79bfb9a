package cassandra

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/sharedcode/lrc"
)

const (
	tableName = "schemes"
	// All records share one partition so that the clustering key orders them globally.
	bucket = 0
)

// SchemeRepository appends records to the schemes table and scans them in time UUID order.
type SchemeRepository struct {
	matcher lrc.Matcher
}

// NewSchemeRepository uses the global connection, open it first with OpenConnection.
func NewSchemeRepository(matcher lrc.Matcher) (*SchemeRepository, error) {
	if connection == nil {
		return nil, fmt.Errorf("Cassandra connection is closed, 'call OpenConnection(config) to open it")
	}
	if matcher == nil {
		matcher = lrc.NewFieldMatcher()
	}
	return &SchemeRepository{
		matcher: matcher,
	}, nil
}

func insertStatement(keyspace string) string {
	return fmt.Sprintf("INSERT INTO %s.%s (bucket, id, groups, length, disks, global_s, scheme) VALUES(?,?,?,?,?,?,?);",
		keyspace, tableName)
}

func selectStatement(keyspace string) string {
	return fmt.Sprintf("SELECT groups, length, disks, global_s, scheme FROM %s.%s WHERE bucket = ?;",
		keyspace, tableName)
}

// Add inserts r with a fresh time UUID.
func (sr *SchemeRepository) Add(ctx context.Context, r lrc.Record) error {
	if connection == nil {
		return fmt.Errorf("Cassandra connection is closed, 'call OpenConnection(config) to open it")
	}
	id := gocql.TimeUUID()
	err := lrc.Retry(ctx, func(ctx context.Context) error {
		return connection.Session.Query(insertStatement(connection.Keyspace),
			bucket, id, r.Groups, r.Length, r.Disks, r.GlobalS, r.Scheme).WithContext(ctx).Exec()
	}, nil)
	if err != nil {
		return lrc.NewError(lrc.RepositoryFailure, err, r)
	}
	return nil
}

// Lookup iterates the partition in clustering order and stops at the first match.
func (sr *SchemeRepository) Lookup(ctx context.Context, q lrc.Query) (lrc.Record, bool, error) {
	if connection == nil {
		return lrc.Record{}, false, fmt.Errorf("Cassandra connection is closed, 'call OpenConnection(config) to open it")
	}
	var found lrc.Record
	var ok bool
	err := lrc.Retry(ctx, func(ctx context.Context) error {
		iter := connection.Session.Query(selectStatement(connection.Keyspace), bucket).WithContext(ctx).PageSize(256).Iter()
		var r lrc.Record
		for iter.Scan(&r.Groups, &r.Length, &r.Disks, &r.GlobalS, &r.Scheme) {
			m, err := sr.matcher.Match(r, q)
			if err != nil {
				iter.Close()
				return lrc.NewError(lrc.ConfigurationConflict, err, q)
			}
			if m {
				found, ok = r, true
				break
			}
			r = lrc.Record{}
		}
		return iter.Close()
	}, nil)
	if err != nil {
		if lrc.IsConfigurationConflict(err) {
			return lrc.Record{}, false, err
		}
		return lrc.Record{}, false, lrc.NewError(lrc.RepositoryFailure, err, q)
	}
	return found, ok, nil
}

// Close is a no-op, the global connection is closed with CloseConnection.
func (sr *SchemeRepository) Close() error {
	return nil
}
