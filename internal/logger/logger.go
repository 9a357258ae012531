package logger

import (
	"log/slog"
	"os"
)

// L is the package level logger used by library packages for non-fatal
// conditions such as skipped validators or unparseable expressions.
var L = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Set replaces the default logger with the provided one.
func Set(l *slog.Logger) {
	if l != nil {
		L = l
	}
}
