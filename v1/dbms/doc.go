// Package dbms is the front door: one uniform CRUD and query surface
// over SQLite, MySQL, PostgreSQL and MongoDB.
//
// A DBMS value binds a backend adapter to a bounded handle pool. Every
// operation takes a schema and (where applicable) a Mongo-style operator
// document, validates it up front, and runs the translated form on a
// borrowed handle. Each operation has a blocking form and an Async twin
// returning a Future.
//
// The package also carries a process-wide instance for applications
// that want engine access without threading a handle around; see
// Initialize, Default and Shutdown. Dependency-injected applications
// use FXModule instead.
package dbms
