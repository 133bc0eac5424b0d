// Package mongo is the document-store backend, built on the official
// go.mongodb.org/mongo-driver.
//
// The operator document vocabulary is MongoDB's own, so translation is
// mostly a re-shaping: the filter AST becomes native BSON, updates
// become a single $set document, and aggregations become a two-stage
// $match/$group pipeline. The reserved "id" field maps to "_id" on the
// wire and back.
//
// The driver ships its own connection pooling, which would defeat the
// exclusive-loan discipline of the handle pool above; every Handle
// therefore wraps a client pinned to a single connection.
package mongo
