// Package telemetry provides structured logging, metrics, and tracing for
// the tallow cryptographic core. Logging wraps logrus; metrics/tracing wrap
// OpenTelemetry, following the same split the teacher VPN library used
// (pluggable tracer interface, optional otel build tag).
package telemetry

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is an alias for structured log fields, kept as its own type so
// call sites don't depend on logrus directly.
type Fields = logrus.Fields

// Logger wraps a logrus.Logger scoped to a component name.
//
// Security note: callers MUST NOT log key material, plaintext message
// contents, or vault payloads. Only sizes, counts, identifiers, and error
// classifications belong in log fields.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a component-scoped logger. format selects "json" for
// log-aggregation pipelines or anything else for human-readable text.
func NewLogger(component string, level logrus.Level, format string, out io.Writer) *Logger {
	base := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	base.SetOutput(out)
	base.SetLevel(level)

	if format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Logger{entry: base.WithField("component", component)}
}

// With returns a derived logger carrying the given structured fields.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) Debug(msg string, fields Fields) { l.entry.WithFields(fields).Debug(msg) }
func (l *Logger) Info(msg string, fields Fields)  { l.entry.WithFields(fields).Info(msg) }
func (l *Logger) Warn(msg string, fields Fields)  { l.entry.WithFields(fields).Warn(msg) }
func (l *Logger) Error(msg string, fields Fields) { l.entry.WithFields(fields).Error(msg) }

// Noop returns a logger that discards everything, used as a safe default
// for components that are not given an explicit logger.
func Noop() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(base)}
}
