package avltree

import "log"

var (
	_ Logger = (*nopLogger)(nil)
	_ Logger = (*stdLogger)(nil)
)

// Logger is the minimal logging interface used by the package, it could be
// replaced by WithLogger.
type Logger interface {
	Log(format string, args ...interface{})
}

// NopLogger discards everything.
func NopLogger() Logger { return &nopLogger{} }

// StdLogger writes through the standard library logger with the given prefix.
func StdLogger(prefix string) Logger { return &stdLogger{prefix: prefix} }

type nopLogger struct{}

func (n *nopLogger) Log(format string, args ...interface{}) {}

type stdLogger struct {
	prefix string
}

func (s *stdLogger) Log(format string, args ...interface{}) {
	if len(format) == 0 || format[len(format)-1] != '\n' {
		format += "\n"
	}
	log.Printf(s.prefix+format, args...)
}
