package dbms

import (
	"time"

	"github.com/polydb-io/polydb/v1/logger"
)

// Backend selects the storage engine a DBMS talks to.
type Backend string

const (
	SQLite     Backend = "sqlite"
	MySQL      Backend = "mysql"
	PostgreSQL Backend = "postgresql"
	MongoDB    Backend = "mongodb"
)

// Valid reports whether b names a supported engine.
func (b Backend) Valid() bool {
	switch b {
	case SQLite, MySQL, PostgreSQL, MongoDB:
		return true
	default:
		return false
	}
}

// Config assembles a DBMS.
type Config struct {
	// Backend selects the engine.
	Backend Backend

	// Path is the database file for SQLite; ignored by the server
	// backends.
	Path string

	// Host/Port/Database/Username/Password locate the server backends;
	// ignored by SQLite. Host and Port default per engine.
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// PoolSize is the number of connection handles dialed at startup.
	// Default: 5
	PoolSize int

	// AcquireTimeout bounds how long an operation queues for a handle.
	// Default: 5 seconds
	AcquireTimeout time.Duration

	// OperationTimeout bounds each backend operation when the caller's
	// context carries no deadline of its own. Zero means no bound.
	OperationTimeout time.Duration

	// ShutdownGrace bounds how long Close waits for in-flight operations.
	// Default: 10 seconds
	ShutdownGrace time.Duration

	// Logger receives engine lifecycle and operation-failure events.
	// Default: logger.Nop()
	Logger *logger.Logger
}

func (c Config) withDefaults() Config {
	if c.PoolSize <= 0 {
		c.PoolSize = 5
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = 5 * time.Second
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return c
}
