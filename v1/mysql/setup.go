package mysql

import (
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/polydb-io/polydb/v1/sqldb"
)

// Config holds the MySQL connection settings.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// DialTimeout bounds the TCP connect. Defaults to 5s.
	DialTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	return c
}

// DSN renders the driver connection string.
func (c Config) DSN() string {
	c = c.withDefaults()
	dc := driver.NewConfig()
	dc.User = c.Username
	dc.Passwd = c.Password
	dc.Net = "tcp"
	dc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	dc.DBName = c.Database
	dc.ParseTime = true
	dc.Loc = time.UTC
	dc.Timeout = c.DialTimeout
	// MySQL reports changed rows by default; matched rows is what every
	// other backend counts for updates.
	dc.ClientFoundRows = true
	return dc.FormatDSN()
}

// Open builds the connection factory for a handle pool of the given
// size.
func Open(cfg Config, poolSize int) (*sqldb.Factory, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mysql: database name must not be empty")
	}
	return sqldb.NewFactory("mysql", cfg.DSN(), poolSize)
}
