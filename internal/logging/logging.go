// Package logging sets up kbctl's zap logger the way the teacher CLI's root
// command does: a production config by default, switched to debug level
// under --verbose, with per-stage child loggers instead of the teacher's
// per-category log files (the KB has no on-disk log directory of its own).
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stage names a pipeline phase a log line belongs to.
type Stage string

const (
	StageLoad      Stage = "load"
	StageElaborate Stage = "elaborate"
	StageValidate  Stage = "validate"
)

// New builds the process-wide logger, matching the teacher's
// zap.NewProductionConfig()/NewAtomicLevelAt(DebugLevel) verbose switch.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// For returns base scoped to stage via zap's own Named child logger.
func For(base *zap.Logger, stage Stage) *zap.Logger {
	return base.Named(string(stage))
}
