// Package sqlite binds the relational engine to SQLite through the
// cgo-free modernc.org/sqlite driver.
//
// SQLite has no native boolean, datetime or JSON column types, so the
// dialect stores booleans as 0/1 integers, datetimes as canonical UTC
// text and lists/dicts as JSON text, and the shared decoder converts
// them back on read.
package sqlite
