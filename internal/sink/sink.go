package sink

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/tovald/powerlogd/internal/errors"
	"codeberg.org/tovald/powerlogd/internal/logger"
	"github.com/fsnotify/fsnotify"
)

const (
	queueSize      = 256
	flushInterval  = time.Second
	defaultDirPerm = 0o755
	logFilePerm    = 0o644
)

// FileSink writes queued lines to an append-only log file. One goroutine
// (Run) owns the file handle; Submit only touches the queue.
type FileSink struct {
	path     string
	file     *os.File
	writer   *bufio.Writer
	lines    chan string
	quit     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	detector *storageDetector

	started  atomic.Bool
	closed   atomic.Bool
	storage  atomic.Bool
	quitOnce sync.Once
	stopOnce sync.Once
	stopErr  error
}

// NewFileSink opens (or creates) the log at path for appending. The watcher
// on the log directory keeps the removable-storage flag current; failing to
// set it up degrades to the startup detection only.
func NewFileSink(path string) (*FileSink, error) {
	errFactory := errors.New()

	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrOpenLog, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenLog, err)
	}

	s := &FileSink{
		path:     path,
		file:     file,
		writer:   bufio.NewWriter(file),
		lines:    make(chan string, queueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		detector: newStorageDetector(path),
	}
	s.storage.Store(s.detector.removable())

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watcher.Add(filepath.Dir(path)); err == nil {
			s.watcher = watcher
		} else {
			watcher.Close()
			logger.Warn().Err(err).Str("path", path).Msg("log directory watch unavailable")
		}
	} else {
		logger.Warn().Err(err).Msg("filesystem watcher unavailable")
	}

	return s, nil
}

// Run consumes the queue until Stop is called or ctx is cancelled
func (s *FileSink) Run(ctx context.Context) error {
	s.started.Store(true)

	flush := time.NewTicker(flushInterval)
	defer flush.Stop()

	var events chan fsnotify.Event
	var watchErrs chan error
	if s.watcher != nil {
		events = s.watcher.Events
		watchErrs = s.watcher.Errors
	}

	for {
		select {
		case line := <-s.lines:
			s.write(line)
		case <-flush.C:
			if err := s.writer.Flush(); err != nil {
				logger.Error().Err(err).Str("path", s.path).Msg("flush failed")
			}
		case <-events:
			// Any change in the log directory can mean the medium came or
			// went; re-probe rather than interpret the event
			s.storage.Store(s.detector.removable())
		case err := <-watchErrs:
			logger.Warn().Err(err).Msg("log directory watch error")
		case <-s.quit:
			s.finish()
			return s.stopErr
		case <-ctx.Done():
			s.finish()
			return s.stopErr
		}
	}
}

// Submit queues one line. It never blocks: a full queue or a stopped sink is
// reported as an error and the line is dropped.
func (s *FileSink) Submit(line string) error {
	errFactory := errors.New()

	if s.closed.Load() {
		return errFactory.New(ErrSinkClosed)
	}

	select {
	case s.lines <- line:
		return nil
	default:
		return errFactory.New(ErrQueueFull)
	}
}

// Stop drains the queue, flushes, syncs and closes the log. Idempotent:
// later calls return the first call's result without draining again.
func (s *FileSink) Stop(timeout time.Duration) error {
	errFactory := errors.New()

	s.closed.Store(true)
	s.quitOnce.Do(func() { close(s.quit) })

	if !s.started.Load() {
		// Run never took ownership, close inline
		s.finish()
		return s.stopErr
	}

	select {
	case <-s.done:
		return s.stopErr
	case <-time.After(timeout):
		return errFactory.New(ErrDrainTimeout)
	}
}

// RemovableStorageConnected reports the current mount status of the log
// target
func (s *FileSink) RemovableStorageConnected() bool {
	return s.storage.Load()
}

func (s *FileSink) write(line string) {
	if _, err := s.writer.WriteString(line); err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("write failed")
		return
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("write failed")
	}
}

// finish drains whatever is still queued and releases the file. Runs at most
// once; the outcome is kept for every Stop caller.
func (s *FileSink) finish() {
	s.stopOnce.Do(func() {
		errFactory := errors.New()
		s.closed.Store(true)

	drain:
		for {
			select {
			case line := <-s.lines:
				s.write(line)
			default:
				break drain
			}
		}

		if s.watcher != nil {
			s.watcher.Close()
		}

		var firstErr error
		if err := s.writer.Flush(); err != nil {
			firstErr = errFactory.Wrap(ErrCloseLog, err)
		}
		if err := s.file.Sync(); err != nil && firstErr == nil {
			firstErr = errFactory.Wrap(ErrCloseLog, err)
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = errFactory.Wrap(ErrCloseLog, err)
		}

		s.stopErr = firstErr
		close(s.done)
	})
}
