package h2core

import (
	"log"
	"os"
)

// Logger is the small structured-logging seam the engine logs
// connection-level events through: a debug-gated *log.Logger field
// shape generalized to an interface so callers can swap it out in
// tests.
type Logger interface {
	Printf(format string, args ...interface{})
}

// stdLogger adapts the standard library's log.Logger to Logger.
type stdLogger struct {
	l *log.Logger
}

func (s *stdLogger) Printf(format string, args ...interface{}) { s.l.Printf(format, args...) }

// NewStdLogger returns a Logger writing to stderr with a package
// prefix, the default when ServerConf.Logger is nil.
func NewStdLogger() Logger {
	return &stdLogger{l: log.New(os.Stderr, "h2core: ", log.LstdFlags)}
}

// noopLogger discards everything; used when debug logging is disabled.
type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}
