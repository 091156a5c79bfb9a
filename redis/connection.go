// Package redis stores scheme records in a Redis list, one JSON document per element, in
// insertion order.
package redis

import (
	"crypto/tls"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/lrc"
)

// DefaultKey is the list holding scheme records when the configuration names none.
const DefaultKey = "lrc:schemes"

// Options are the Redis connection options.
type Options struct {
	// Redis server(cluster) address.
	Address string
	// Password required when connecting to the Redis server.
	Password string
	// DB to connect to.
	DB int
	// URL overrides Address, Password and DB when set.
	URL string
	// TLS config.
	TLSConfig *tls.Config
}

// DefaultOptions.
func DefaultOptions() Options {
	return Options{
		Address:  "localhost:6379",
		Password: "", // no password set
		DB:       0,  // use default DB
	}
}

// OptionsFromConfig converts the JSON configuration section into connection options.
func OptionsFromConfig(c lrc.RedisCacheConfig) Options {
	o := DefaultOptions()
	if c.Address != "" {
		o.Address = c.Address
	}
	o.Password = c.Password
	o.DB = c.DB
	o.URL = c.URL
	return o
}

// Connection contains Redis client connection object and the Options used to connect.
type Connection struct {
	Client  *redis.Client
	Options Options
}

var connection *Connection
var mux sync.Mutex

// IsConnectionInstantiated returns true if the singleton connection is open.
func IsConnectionInstantiated() bool {
	return connection != nil
}

// OpenConnection creates a singleton connection and returns it for every call.
func OpenConnection(options Options) (*Connection, error) {
	if connection != nil {
		return connection, nil
	}
	mux.Lock()
	defer mux.Unlock()

	if connection != nil {
		return connection, nil
	}

	c, err := openConnection(options)
	if err != nil {
		return nil, err
	}
	connection = c
	return connection, nil
}

// CloseConnection closes the singleton connection if open.
func CloseConnection() error {
	if connection == nil {
		return nil
	}
	mux.Lock()
	defer mux.Unlock()
	if connection == nil {
		return nil
	}
	err := closeConnection(connection)
	connection = nil
	return err
}

func clientOptions(options Options) (*redis.Options, error) {
	if options.URL != "" {
		o, err := redis.ParseURL(options.URL)
		if err != nil {
			return nil, lrc.NewError(lrc.ConfigurationConflict, fmt.Errorf("invalid redis url, details: %w", err), options.URL)
		}
		if options.TLSConfig != nil {
			o.TLSConfig = options.TLSConfig
		}
		return o, nil
	}
	return &redis.Options{
		TLSConfig: options.TLSConfig,
		Addr:      options.Address,
		Password:  options.Password,
		DB:        options.DB,
	}, nil
}

func openConnection(options Options) (*Connection, error) {
	o, err := clientOptions(options)
	if err != nil {
		return nil, err
	}
	return &Connection{
		Client:  redis.NewClient(o),
		Options: options,
	}, nil
}

func closeConnection(c *Connection) error {
	if c == nil || c.Client == nil {
		return nil
	}
	err := c.Client.Close()
	c.Client = nil
	return err
}
