//go:build !stdlog && !nolog
// +build !stdlog,!nolog

package build

import "os"

// LoggingType is a log type that writes to both stdout and the log rotator, if
// present.
const LoggingType = LogTypeDefault

// Write writes the provided byte slice to stdout, and to the RotatorPipe
// if one has been set. No rotator is wired up in this build: callers that
// never assign RotatorPipe simply get stdout-only logging.
func (w *LogWriter) Write(b []byte) (int, error) {
	os.Stdout.Write(b)

	if w.RotatorPipe != nil {
		return w.RotatorPipe.Write(b)
	}

	return len(b), nil
}
