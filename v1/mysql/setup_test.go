package mysql

import (
	"testing"
	"time"

	driver "github.com/go-sql-driver/mysql"
)

func TestDSNDefaults(t *testing.T) {
	cfg := Config{Database: "app", Username: "u", Password: "p"}

	dc, err := driver.ParseDSN(cfg.DSN())
	if err != nil {
		t.Fatalf("ParseDSN: %v", err)
	}
	if dc.Addr != "localhost:3306" {
		t.Errorf("Addr = %q, want localhost:3306", dc.Addr)
	}
	if dc.DBName != "app" {
		t.Errorf("DBName = %q, want app", dc.DBName)
	}
	if !dc.ParseTime {
		t.Error("ParseTime is off; datetime columns would scan as []byte")
	}
	if dc.Loc != time.UTC {
		t.Errorf("Loc = %v, want UTC", dc.Loc)
	}
	if dc.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", dc.Timeout)
	}
}

// Updates must count matched rows, not changed rows, or a no-op
// assignment reports 0 on MySQL while every other backend reports the
// match count.
func TestDSNCountsMatchedRows(t *testing.T) {
	dc, err := driver.ParseDSN(Config{Database: "app"}.DSN())
	if err != nil {
		t.Fatalf("ParseDSN: %v", err)
	}
	if !dc.ClientFoundRows {
		t.Error("ClientFoundRows is off; UPDATE would report changed rows instead of matched rows")
	}
}
