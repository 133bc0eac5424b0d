// Package postgres binds the relational engine to PostgreSQL through
// the pgx driver's database/sql adapter.
//
// Datetimes are stored as TIMESTAMPTZ and collections as JSONB.
package postgres
