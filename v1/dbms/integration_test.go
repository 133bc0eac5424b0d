package dbms

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/polydb-io/polydb/v1/backend"
)

// startContainer starts a throwaway database container and returns the
// host and mapped port to dial. Skips the test when no container
// runtime is available, so the integration suites are opt-in.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port nat.Port) (string, int) {
	t.Helper()
	ctx := context.Background()

	// testcontainers panics (rather than returning an error) when no
	// Docker host can be discovered at all; fold that into the same
	// skip path as an error return.
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("container runtime unavailable: %v", r)
		}
	}()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	mapped, err := ctr.MappedPort(ctx, port)
	require.NoError(t, err)
	return host, mapped.Int()
}

// dialWithRetry assembles a DBMS against a container that may still be
// warming up. New dials the pool eagerly, so a successful return means
// the server accepted every handle.
func dialWithRetry(t *testing.T, cfg Config) *DBMS {
	t.Helper()
	deadline := time.Now().Add(60 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		d, err := New(ctx, cfg)
		cancel()
		if err == nil {
			t.Cleanup(func() { _ = d.Close(context.Background()) })
			return d
		}
		if time.Now().After(deadline) {
			t.Fatalf("database never became ready: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// runEngineSuite exercises the operation surface every backend must
// implement identically. Each backend's integration test runs it
// against a real server.
func runEngineSuite(t *testing.T, d *DBMS) {
	ctx := context.Background()
	sch := userSchema(t)

	require.NoError(t, d.EnsureSchema(ctx, sch))
	require.NoError(t, d.EnsureSchema(ctx, sch), "repeated EnsureSchema must be a lossless no-op")

	seedUsers(t, d, sch)

	t.Run("FindAllInInsertionOrder", func(t *testing.T) {
		all, err := d.Find(ctx, sch, nil)
		require.NoError(t, err)
		require.Len(t, all, 4)
		names := make([]string, len(all))
		for i, rec := range all {
			names[i] = rec["name"].(string)
		}
		require.Equal(t, []string{"ada", "grace", "linus", "barbara"}, names)
	})

	t.Run("OperatorFilter", func(t *testing.T) {
		got, err := d.Find(ctx, sch, map[string]any{
			"age": map[string]any{"$gte": 25, "$lt": 40},
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "ada", got[0]["name"])
		require.Equal(t, "linus", got[1]["name"])
	})

	t.Run("AggregateSum", func(t *testing.T) {
		sum, err := d.Aggregate(ctx, sch, backend.AggSum, "age", nil)
		require.NoError(t, err)
		require.Equal(t, float64(36+45+25+17), sum)
	})

	t.Run("HostileValuesMatchLiterally", func(t *testing.T) {
		hostile := "x'; DROP TABLE users; --"
		id, err := d.Insert(ctx, sch, Record{"name": hostile, "age": 99})
		require.NoError(t, err)

		got, err := d.FindOne(ctx, sch, map[string]any{"name": hostile})
		require.NoError(t, err)
		require.Equal(t, id, got["id"])

		n, err := d.Count(ctx, sch, nil)
		require.NoError(t, err)
		require.Equal(t, int64(5), n)
	})

	t.Run("UpdateCountsMatchedRecords", func(t *testing.T) {
		n, err := d.Update(ctx, sch, map[string]any{"name": "ada"}, map[string]any{"age": 37})
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		// Assigning the value a record already holds still counts it.
		n, err = d.Update(ctx, sch, map[string]any{"name": "ada"}, map[string]any{"age": 37})
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		got, err := d.FindOne(ctx, sch, map[string]any{"name": "ada"})
		require.NoError(t, err)
		require.EqualValues(t, 37, got["age"])
	})

	t.Run("DatetimeRoundTrip", func(t *testing.T) {
		joined := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
		n, err := d.Update(ctx, sch, map[string]any{"name": "grace"}, map[string]any{"joined": joined})
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		got, err := d.FindOne(ctx, sch, map[string]any{"name": "grace"})
		require.NoError(t, err)
		require.Equal(t, joined, got["joined"])
	})

	t.Run("Delete", func(t *testing.T) {
		n, err := d.Delete(ctx, sch, map[string]any{"age": map[string]any{"$lt": 20}})
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		remaining, err := d.Count(ctx, sch, nil)
		require.NoError(t, err)
		require.Equal(t, int64(4), remaining)
	})

	t.Run("FindOneNotFound", func(t *testing.T) {
		_, err := d.FindOne(ctx, sch, map[string]any{"name": "nobody"})
		require.ErrorIs(t, err, backend.ErrNotFound)
	})
}
