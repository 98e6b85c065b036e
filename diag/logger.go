package diag

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is an indentation-scoped wrapper around an injected
// logrus.FieldLogger: the only process-wide state, modeled as an explicit
// value passed to every analysis entry point, with indentation as an
// acquire/release value that's guaranteed to release on every exit path.
type Logger struct {
	base   logrus.FieldLogger
	indent int
}

// NewLogger wraps base. A nil base falls back to a standard logrus logger
// at Info level.
func NewLogger(base logrus.FieldLogger) *Logger {
	if base == nil {
		base = logrus.New()
	}
	return &Logger{base: base}
}

// Push increases the indentation scope and returns a function that restores
// it; callers defer the return value so indentation always unwinds, even on
// an early return or panic. A nil *Logger (analysis run without one
// supplied) is a no-op.
func (l *Logger) Push() func() {
	if l == nil {
		return func() {}
	}
	l.indent++
	return func() {
		if l.indent > 0 {
			l.indent--
		}
	}
}

func (l *Logger) prefix() string {
	if l.indent == 0 {
		return ""
	}
	return strings.Repeat("  ", l.indent)
}

// Debugf logs at debug level with the current indentation prefix. A nil
// *Logger discards the message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Debugf(l.prefix()+format, args...)
}

// Infof logs at info level with the current indentation prefix. A nil
// *Logger discards the message.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Infof(l.prefix()+format, args...)
}

// Warnf logs at warn level with the current indentation prefix. A nil
// *Logger discards the message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Warnf(l.prefix()+format, args...)
}

// Errorf logs at error level with the current indentation prefix. A nil
// *Logger discards the message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Errorf(l.prefix()+format, args...)
}
