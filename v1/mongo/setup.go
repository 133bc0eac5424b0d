package mongo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/polydb-io/polydb/v1/pool"
)

// Config holds the MongoDB connection settings.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// ConnectTimeout bounds server selection and dialing. Defaults to 5s.
	ConnectTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 27017
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	return c
}

// URI renders the connection string with escaped credentials.
func (c Config) URI() string {
	c = c.withDefaults()
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/",
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}

// Handle is one pooled unit of MongoDB connectivity: a client pinned to
// a single underlying connection, so a borrowed handle carries exactly
// one socket like its relational counterparts.
type Handle struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ pool.Handle = (*Handle)(nil)

// Ping verifies the server is reachable over the handle's connection.
func (h *Handle) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, nil)
}

// Close disconnects the handle's client.
func (h *Handle) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.client.Disconnect(ctx)
}

// Database exposes the bound database for the adapter.
func (h *Handle) Database() *mongo.Database { return h.db }

// Factory dials single-connection clients.
type Factory struct {
	cfg Config
}

var _ pool.Factory = (*Factory)(nil)

// NewFactory builds the handle factory.
func NewFactory(cfg Config) (*Factory, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: database name must not be empty")
	}
	return &Factory{cfg: cfg.withDefaults()}, nil
}

// Connect dials one client, pins it to a single connection and verifies
// it with a ping.
func (f *Factory) Connect(ctx context.Context) (pool.Handle, error) {
	opts := options.Client().
		ApplyURI(f.cfg.URI()).
		SetMaxPoolSize(1).
		SetMinPoolSize(1).
		SetConnectTimeout(f.cfg.ConnectTimeout).
		SetServerSelectionTimeout(f.cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping new connection: %w", err)
	}
	return &Handle{client: client, db: client.Database(f.cfg.Database)}, nil
}
