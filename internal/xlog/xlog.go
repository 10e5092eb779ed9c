// Package xlog is the ambient logger for the stream package: a thin
// zerolog wrapper scaled to a library's needs rather than a service's —
// no trace/span/request enrichment, just a swappable default logger with
// a handful of call sites in Merge, Sink, and Split.
package xlog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	current = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// SetLogger overrides the package-level logger, e.g. to raise verbosity
// or redirect output in a host application.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// Default returns the current package-level logger.
func Default() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
