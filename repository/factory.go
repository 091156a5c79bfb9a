// Package repository opens the scheme repository backend named by the configuration.
package repository

import (
	"context"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/cassandra"
	"github.com/sharedcode/lrc/cel"
	"github.com/sharedcode/lrc/fs"
	"github.com/sharedcode/lrc/inmemory"
	"github.com/sharedcode/lrc/redis"
)

// Factory opens a repository of one backend type.
type Factory func(ctx context.Context, c lrc.RepositoryConfig, m lrc.Matcher) (lrc.CloseableSchemeRepository, error)

var registry = map[lrc.RepositoryType]Factory{
	lrc.CSVRepository: func(ctx context.Context, c lrc.RepositoryConfig, m lrc.Matcher) (lrc.CloseableSchemeRepository, error) {
		return fs.NewSchemeRepository(c.CSVPath, m), nil
	},
	lrc.InMemoryRepository: func(ctx context.Context, c lrc.RepositoryConfig, m lrc.Matcher) (lrc.CloseableSchemeRepository, error) {
		return inmemory.NewSchemeRepository(m), nil
	},
	lrc.RedisRepository: func(ctx context.Context, c lrc.RepositoryConfig, m lrc.Matcher) (lrc.CloseableSchemeRepository, error) {
		return redis.NewConnectionSchemeRepository(redis.OptionsFromConfig(*c.Redis), c.Redis.Key, m)
	},
	lrc.CassandraRepository: func(ctx context.Context, c lrc.RepositoryConfig, m lrc.Matcher) (lrc.CloseableSchemeRepository, error) {
		if _, err := cassandra.OpenConnection(cassandra.ConfigFromOptions(*c.Cassandra)); err != nil {
			return nil, err
		}
		sr, err := cassandra.NewSchemeRepository(m)
		if err != nil {
			return nil, err
		}
		return closeWith{CloseableSchemeRepository: sr, close: func() error {
			cassandra.CloseConnection()
			return nil
		}}, nil
	},
}

// Register adds or replaces the factory of a backend type.
func Register(t lrc.RepositoryType, f Factory) {
	registry[t] = f
}

// Open validates c, compiles its filter expression and opens the backend.
func Open(ctx context.Context, c lrc.RepositoryConfig) (lrc.CloseableSchemeRepository, error) {
	if err := (lrc.Config{Compiler: lrc.DefaultCompilerOptions(), Repository: c}).Validate(); err != nil {
		return nil, err
	}
	f, ok := registry[c.Type]
	if !ok {
		return nil, lrc.Errorf(lrc.ConfigurationConflict, "no factory registered for repository type %q", c.Type)
	}
	m, err := cel.NewMatcher(c.FilterExpression)
	if err != nil {
		return nil, lrc.NewError(lrc.ConfigurationConflict, err, c.FilterExpression)
	}
	return f(ctx, c, m)
}

type closeWith struct {
	lrc.CloseableSchemeRepository
	close func() error
}

func (c closeWith) Close() error {
	if err := c.CloseableSchemeRepository.Close(); err != nil {
		return err
	}
	return c.close()
}
