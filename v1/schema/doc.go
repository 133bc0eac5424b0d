// Package schema defines the backend-independent description of a model:
// an ordered list of typed fields plus per-field constraints.
//
// A Schema is supplied by the model-declaration layer and is treated as
// read-only by the query engine. Every filter and update document is
// validated against it before any backend is contacted, so unknown fields
// and type-mismatched values fail fast without partial state changes.
//
// # Field Kinds
//
// Each field carries a semantic kind (KindString, KindInt, KindFloat,
// KindBool, KindDateTime, KindEmail, KindID, KindList, KindDict,
// KindComputed). The kind drives three things:
//
//   - value validation and coercion on the way in (Field.Validate)
//   - the column type chosen by each SQL dialect on table creation
//   - the canonical representation results are mapped back to, so a
//     record read on SQLite is field-for-field equal to the same record
//     read on PostgreSQL or MongoDB
//
// Datetimes are canonicalized to UTC truncated to whole seconds
// (CanonicalTime); this is the single representation every backend
// surfaces regardless of its native timestamp precision.
//
// Computed fields are derived by the model layer and never persisted;
// writing to one is a validation error.
package schema
