package sink

import (
	"context"
	"time"
)

// Sink is an append-only, crash-safe line writer. Submissions are queued and
// written by the sink's own run loop; Stop drains the queue before closing.
type Sink interface {
	// Run consumes queued lines until stopped or the context is cancelled
	Run(ctx context.Context) error

	// Submit queues one line for writing without blocking
	Submit(line string) error

	// Stop drains the queue, flushes and closes the log. Safe to call more
	// than once.
	Stop(timeout time.Duration) error

	// RemovableStorageConnected reports whether the log target's storage
	// medium is currently present
	RemovableStorageConnected() bool
}
