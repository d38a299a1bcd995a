// Package observability wraps the structured logger used across adapters.
package observability

import (
	"go.uber.org/zap"
)

type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a production logger; level "debug" switches to the
// development config.
func NewLogger(level string) *Logger {
	var l *zap.Logger
	if level == "debug" {
		l, _ = zap.NewDevelopment()
	} else {
		l, _ = zap.NewProduction()
	}
	return &Logger{l.Sugar()}
}

// NewNop returns a logger that discards everything; handy in tests.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
