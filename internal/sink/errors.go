package sink

import "codeberg.org/tovald/powerlogd/internal/errors"

const (
	// Setup errors
	ErrOpenLog    = errors.ErrorCode("sink_open_log_failed")
	ErrWatchSetup = errors.ErrorCode("sink_watch_setup_failed")

	// Submission errors
	ErrQueueFull  = errors.ErrorCode("sink_queue_full")
	ErrSinkClosed = errors.ErrorCode("sink_closed")

	// Shutdown errors
	ErrDrainTimeout = errors.ErrorCode("sink_drain_timeout")
	ErrCloseLog     = errors.ErrorCode("sink_close_log_failed")
)
