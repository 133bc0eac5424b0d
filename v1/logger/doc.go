// Package logger provides the structured logger used by polydb's
// lifecycle components (pool initialization, reconnection, shutdown).
//
// It is a thin wrapper around Uber's zap. Query execution itself never
// logs: operation errors are always returned to the caller, so the
// logger only narrates state transitions of long-lived resources.
//
// Nop returns a disabled logger; every component accepts one, so
// embedding applications that bring their own logging can silence
// polydb entirely.
package logger
