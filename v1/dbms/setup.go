package dbms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/polydb-io/polydb/v1/backend"
	"github.com/polydb-io/polydb/v1/logger"
	"github.com/polydb-io/polydb/v1/mongo"
	"github.com/polydb-io/polydb/v1/mysql"
	"github.com/polydb-io/polydb/v1/pool"
	"github.com/polydb-io/polydb/v1/postgres"
	"github.com/polydb-io/polydb/v1/sqldb"
	"github.com/polydb-io/polydb/v1/sqlite"
)

// DBMS is one configured engine: a backend adapter bound to a bounded
// handle pool. Safe for concurrent use.
type DBMS struct {
	cfg     Config
	adapter backend.Adapter
	pool    *pool.Pool
	closeFn func() error
	log     *logger.Logger
}

// New assembles a DBMS for the configured backend and dials its
// connection pool eagerly; an unreachable database fails construction
// rather than the first operation.
func New(ctx context.Context, cfg Config) (*DBMS, error) {
	cfg = cfg.withDefaults()
	if !cfg.Backend.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	var (
		adapter backend.Adapter
		factory pool.Factory
		closeFn func() error
	)
	switch cfg.Backend {
	case SQLite:
		f, err := sqlite.Open(sqlite.Config{Path: cfg.Path}, cfg.PoolSize)
		if err != nil {
			return nil, err
		}
		adapter, factory, closeFn = sqldb.NewAdapter(sqlite.Dialect{}), f, f.Close

	case MySQL:
		f, err := mysql.Open(mysql.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		}, cfg.PoolSize)
		if err != nil {
			return nil, err
		}
		adapter, factory, closeFn = sqldb.NewAdapter(mysql.Dialect{}), f, f.Close

	case PostgreSQL:
		f, err := postgres.Open(postgres.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		}, cfg.PoolSize)
		if err != nil {
			return nil, err
		}
		adapter, factory, closeFn = sqldb.NewAdapter(postgres.Dialect{}), f, f.Close

	case MongoDB:
		f, err := mongo.NewFactory(mongo.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, err
		}
		adapter, factory = mongo.NewAdapter(), f

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	log := cfg.Logger.With(zap.String("backend", string(cfg.Backend)))
	p, err := pool.New(ctx, factory, pool.Config{
		Size:           cfg.PoolSize,
		AcquireTimeout: cfg.AcquireTimeout,
		ShutdownGrace:  cfg.ShutdownGrace,
		Logger:         log,
	})
	if err != nil {
		if closeFn != nil {
			_ = closeFn()
		}
		return nil, err
	}

	log.Info("dbms ready", zap.Int("pool_size", cfg.PoolSize))
	return &DBMS{cfg: cfg, adapter: adapter, pool: p, closeFn: closeFn, log: log}, nil
}

// Backend returns the engine this DBMS talks to.
func (d *DBMS) Backend() Backend { return d.cfg.Backend }

// Close drains the pool within the configured grace period and releases
// all connections. The DBMS is unusable afterwards.
func (d *DBMS) Close(ctx context.Context) error {
	err := d.pool.Shutdown(ctx)
	if d.closeFn != nil {
		if cerr := d.closeFn(); err == nil {
			err = cerr
		}
	}
	d.log.Info("dbms closed")
	return err
}

// opCtx applies the configured per-operation timeout when the caller's
// context has no deadline of its own.
func (d *DBMS) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.cfg.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	if _, has := ctx.Deadline(); has {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.cfg.OperationTimeout)
}
