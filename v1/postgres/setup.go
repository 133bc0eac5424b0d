package postgres

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/polydb-io/polydb/v1/sqldb"
)

// Config holds the PostgreSQL connection settings.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// SSLMode is passed through to the driver. Defaults to "prefer".
	SSLMode string
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "prefer"
	}
	return c
}

// DSN renders the driver connection URL. Credentials are URL-escaped so
// any password survives the round trip.
func (c Config) DSN() string {
	c = c.withDefaults()
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Open builds the connection factory for a handle pool of the given
// size.
func Open(cfg Config, poolSize int) (*sqldb.Factory, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("postgres: database name must not be empty")
	}
	return sqldb.NewFactory("pgx", cfg.DSN(), poolSize)
}
