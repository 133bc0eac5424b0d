package dbms

import (
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMySQLEngineSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	req := testcontainers.ContainerRequest{
		Image: "mysql:8.0",
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "rootpass",
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_USER":          "testuser",
			"MYSQL_PASSWORD":      "testpass",
		},
		ExposedPorts: []string{"3306/tcp"},
		// The entrypoint starts mysqld twice; the second "ready for
		// connections" is the one that accepts TCP clients.
		WaitingFor: wait.ForLog("ready for connections").WithOccurrence(2).WithStartupTimeout(120 * time.Second),
	}
	host, port := startContainer(t, req, "3306/tcp")

	d := dialWithRetry(t, Config{
		Backend:  MySQL,
		Host:     host,
		Port:     port,
		Database: "testdb",
		Username: "testuser",
		Password: "testpass",
		PoolSize: 2,
	})
	runEngineSuite(t, d)
}
