// Package cassandra stores scheme records in a Cassandra table clustered by time UUID, so
// reads come back in insertion order.
package cassandra

import (
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"github.com/sharedcode/lrc"
)

// Config contains configuration for connecting to a Cassandra cluster and keyspace.
type Config struct {
	// ClusterHosts lists contact points for the Cassandra cluster.
	ClusterHosts []string
	// Keyspace holds the schemes table.
	Keyspace string
	// Consistency is the default consistency level for queries.
	Consistency gocql.Consistency
	// ConnectionTimeout is the session connection timeout.
	ConnectionTimeout time.Duration
	// Authenticator is used when the cluster requires authentication.
	Authenticator gocql.Authenticator
	// ReplicationClause defines the keyspace replication (e.g., SimpleStrategy).
	ReplicationClause string
}

// ConfigFromOptions converts the JSON configuration section into a connection Config.
func ConfigFromOptions(o lrc.CassandraConfig) Config {
	c := Config{
		ClusterHosts: o.ClusterHosts,
		Keyspace:     o.Keyspace,
	}
	if o.ConnectionTimeoutSeconds > 0 {
		c.ConnectionTimeout = time.Duration(o.ConnectionTimeoutSeconds) * time.Second
	}
	if o.Username != "" {
		c.Authenticator = gocql.PasswordAuthenticator{
			Username: o.Username,
			Password: o.Password,
		}
	}
	return c
}

// Connection wraps a Cassandra session and its configuration.
type Connection struct {
	Session *gocql.Session
	Config
}

var connection *Connection
var mux sync.Mutex

// IsConnectionInstantiated reports whether a global Connection has been created.
func IsConnectionInstantiated() bool {
	return connection != nil
}

func (config *Config) applyDefaults() {
	if config.Keyspace == "" {
		config.Keyspace = "lrc"
	}
	if config.Consistency == gocql.Any {
		// Defaults to LocalQuorum consistency. You should set it to an appropriate level.
		config.Consistency = gocql.LocalQuorum
	}
	if config.ReplicationClause == "" {
		config.ReplicationClause = "{'class':'SimpleStrategy', 'replication_factor':1}"
	}
}

// OpenConnection returns the existing global Connection or opens a new one using the provided
// config. The keyspace and schemes table are created when missing.
func OpenConnection(config Config) (*Connection, error) {
	if connection != nil {
		return connection, nil
	}
	mux.Lock()
	defer mux.Unlock()

	if connection != nil {
		return connection, nil
	}
	config.applyDefaults()
	cluster := gocql.NewCluster(config.ClusterHosts...)
	cluster.Consistency = config.Consistency
	if config.ConnectionTimeout > 0 {
		cluster.ConnectTimeout = config.ConnectionTimeout
	}
	if config.Authenticator != nil {
		cluster.Authenticator = config.Authenticator
		config.Authenticator = nil
	}
	s, err := cluster.CreateSession()
	if err != nil {
		return nil, lrc.NewError(lrc.RepositoryFailure, err, config.ClusterHosts)
	}
	for _, stmt := range schemaStatements(config) {
		if err := s.Query(stmt).Exec(); err != nil {
			s.Close()
			return nil, lrc.NewError(lrc.RepositoryFailure, fmt.Errorf("%s failed, details: %w", stmt, err), config.Keyspace)
		}
	}

	connection = &Connection{
		Session: s,
		Config:  config,
	}
	return connection, nil
}

func schemaStatements(config Config) []string {
	return []string{
		fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = %s;", config.Keyspace, config.ReplicationClause),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (bucket int, id timeuuid, groups int, length int, disks int, global_s int, scheme text, PRIMARY KEY(bucket, id)) WITH CLUSTERING ORDER BY (id ASC);",
			config.Keyspace, tableName),
	}
}

// CloseConnection closes and clears the global connection, if it exists.
func CloseConnection() {
	if connection != nil {
		mux.Lock()
		defer mux.Unlock()
		if connection == nil {
			return
		}
		connection.Session.Close()
		connection = nil
	}
}
