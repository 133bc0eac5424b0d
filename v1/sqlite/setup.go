package sqlite

import (
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/polydb-io/polydb/v1/sqldb"
)

// Config holds the SQLite connection settings.
type Config struct {
	// Path is the database file path, or ":memory:" for an in-memory
	// database.
	Path string

	// BusyTimeoutMillis bounds how long a statement waits on a locked
	// database before failing. Defaults to 5000.
	BusyTimeoutMillis int
}

func (c Config) withDefaults() Config {
	if c.BusyTimeoutMillis <= 0 {
		c.BusyTimeoutMillis = 5000
	}
	return c
}

// DSN renders the driver connection string. A bare ":memory:" would
// give every pooled connection its own private database, so in-memory
// mode opts into the shared cache.
func (c Config) DSN() string {
	c = c.withDefaults()
	q := url.Values{}
	if c.Path == ":memory:" {
		q.Set("cache", "shared")
	}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeoutMillis))
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + c.Path + "?" + q.Encode()
}

// Open builds the connection factory for a handle pool of the given
// size.
func Open(cfg Config, poolSize int) (*sqldb.Factory, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: database path must not be empty")
	}
	return sqldb.NewFactory("sqlite", cfg.DSN(), poolSize)
}
