package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/polydb-io/polydb/v1/pool"
)

// Handle is one dedicated database connection. It satisfies pool.Handle;
// the adapter downcasts borrowed handles back to it.
type Handle struct {
	conn *sql.Conn
}

var _ pool.Handle = (*Handle)(nil)

// Ping verifies the connection is still alive.
func (h *Handle) Ping(ctx context.Context) error {
	return h.conn.PingContext(ctx)
}

// Close returns the underlying connection to the driver for disposal.
func (h *Handle) Close() error {
	return h.conn.Close()
}

// Conn exposes the raw connection for statement execution.
func (h *Handle) Conn() *sql.Conn { return h.conn }

// Factory dials dedicated connections out of a shared *sql.DB. The DB's
// MaxOpenConns is pinned to the handle-pool size so database/sql never
// multiplexes beyond the bounded pool above it, and its idle pool is
// disabled; lifecycle belongs to the handle pool, not the driver.
type Factory struct {
	db *sql.DB
}

var _ pool.Factory = (*Factory)(nil)

// NewFactory opens the driver-level DB for dsn and shapes its limits
// around a handle pool of the given size. The DB is not dialed here;
// connections are established lazily by Connect.
func NewFactory(driverName, dsn string, poolSize int) (*Factory, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqldb: open %s: %w", driverName, err)
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(0)
	return &Factory{db: db}, nil
}

// Connect checks one dedicated connection out of the driver pool and
// verifies it with a ping.
func (f *Factory) Connect(ctx context.Context) (pool.Handle, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqldb: acquire connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqldb: ping new connection: %w", err)
	}
	return &Handle{conn: conn}, nil
}

// Close releases the driver-level DB after the handle pool has shut
// down its individual connections.
func (f *Factory) Close() error {
	return f.db.Close()
}
