// Package sqldb executes translated statements against the relational
// engines. One Adapter implementation serves SQLite, MySQL and
// PostgreSQL; everything engine-specific is delegated to the
// sqlgen.Dialect supplied by the per-backend packages.
//
// Handles are individual *sql.Conn connections checked out of a
// database/sql pool that is sized to never exceed the bounded handle
// pool above it, so a borrowed Handle is exclusively the borrower's for
// the duration of the loan.
package sqldb
