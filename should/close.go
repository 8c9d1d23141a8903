// Package should provides cleanup helpers for defer statements: failures are
// logged rather than returned.
package should

import (
	"io"
	"log/slog"
)

// Close attempts to close the given io.Closer and logs an error if it fails.
//
// Example:
//
//	defer should.Close(handle, "failed to release result handle")
func Close(closer io.Closer, msg string) {
	if err := closer.Close(); err != nil {
		slog.Error(msg, "error", err)
	}
}
