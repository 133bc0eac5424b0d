// Package sqlgen is the shared SQL translation core for the relational
// backends. SQLite, MySQL and PostgreSQL differ only in placeholder
// syntax, identifier quoting, column types and a few value encodings;
// everything dialect-specific hangs off the Dialect interface and the
// statement builders here are written once.
//
// Every value is bound as a statement parameter, never interpolated
// into SQL text, so a filter value containing SQL metacharacters can
// only ever match literally. The builders produce deterministic output
// for a given AST: sibling predicates arrive pre-ordered from the filter
// package, SET clauses follow schema declaration order, and every SELECT
// carries an ORDER BY over the hidden insertion-sequence column so
// result order is insertion order on every engine.
//
// Edge cases follow the operator document semantics: an empty $in
// compiles to a predicate matching nothing (1 = 0) rather than a syntax
// error, an empty $nin to 1 = 1, an empty $and to 1 = 1, and an empty
// $or to 1 = 0.
package sqlgen
