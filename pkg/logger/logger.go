// Package logger builds the structured loggers used throughout Ignite.
// Every subsystem receives a *zap.SugaredLogger scoped to a service name so
// log lines can be attributed back to the engine, storage, compaction, or
// server layer that emitted them.
package logger

import (
	"go.uber.org/zap"
)

// New builds a production zap logger scoped to service and returns its
// sugared form, which is what the rest of the codebase threads through
// Config structs.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails if the default encoder config is
		// invalid, which never happens with the values above; fall back to
		// a no-op logger rather than panic in a library constructor.
		base = zap.NewNop()
	}
	return base.Sugar().Named(service)
}

// NewDevelopment builds a human-readable, colorized logger suitable for the
// command-line client and local development, scoped to service.
func NewDevelopment(service string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().Named(service)
}
