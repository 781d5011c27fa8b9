package sampler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/tovald/powerlogd/internal/availability"
	"codeberg.org/tovald/powerlogd/internal/errors"
	"codeberg.org/tovald/powerlogd/internal/logger"
	"codeberg.org/tovald/powerlogd/internal/power"
	"codeberg.org/tovald/powerlogd/internal/sink"
	"codeberg.org/tovald/powerlogd/internal/telemetry"
)

// State tracks the sampler's one-shot lifecycle
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Sampler drives one record-producing tick per interval until its context is
// cancelled, then drains the sink before reporting itself stopped.
type Sampler struct {
	cfg    Config
	source power.Source
	flags  availability.Source
	sink   sink.Sink
	mirror telemetry.Collector // optional, may be nil
	clock  func() time.Time

	// Owned exclusively by the tick goroutine
	headerWritten bool

	state      atomic.Int32
	sinkCancel context.CancelFunc
	stopOnce   sync.Once
	stopErr    error
	done       chan struct{}
}

// New wires a sampler. mirror may be nil to disable the telemetry mirror.
func New(cfg Config, source power.Source, flags availability.Source, recordSink sink.Sink, mirror telemetry.Collector) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Sampler{
		cfg:    cfg,
		source: source,
		flags:  flags,
		sink:   recordSink,
		mirror: mirror,
		clock:  time.Now,
		done:   make(chan struct{}),
	}, nil
}

// State returns the current lifecycle state
func (s *Sampler) State() State {
	return State(s.state.Load())
}

// Run starts the sink's consumer loop and ticks until ctx is cancelled.
// Cancellation is the clean-exit path; the returned error is the sink's
// drain result. Run can be called once per instance.
func (s *Sampler) Run(ctx context.Context) error {
	errFactory := errors.New()

	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		return errFactory.New(ErrAlreadyStarted)
	}

	// The sink outlives tick processing: its context is cancelled only
	// after the drain handshake in shutdown
	sinkCtx, sinkCancel := context.WithCancel(context.Background())
	s.sinkCancel = sinkCancel
	go func() {
		if err := s.sink.Run(sinkCtx); err != nil {
			logger.ErrorWithCode(err).Msg("record sink terminated")
		}
	}()

	logger.Info().
		Dur("interval", s.cfg.Interval).
		Msg("sampling started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case <-s.done:
			// Stop was called directly
			return s.stopErr
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stop performs the drain handshake without a prior cancellation, for
// teardown paths. Safe to call repeatedly; every call reports the first
// drain's outcome.
func (s *Sampler) Stop() error {
	return s.shutdown()
}

// shutdown stops the sink exactly once and waits for its drain to complete
// before the sampler declares itself stopped. A drain failure propagates to
// the caller but never blocks the transition to Stopped.
func (s *Sampler) shutdown() error {
	s.stopOnce.Do(func() {
		s.state.Store(int32(StateStopping))
		logger.Info().Msg("stopping, draining record sink")

		s.stopErr = s.sink.Stop(s.cfg.DrainTimeout)

		if s.sinkCancel != nil {
			s.sinkCancel()
		}

		if s.mirror != nil {
			if err := s.mirror.Close(); err != nil {
				logger.Warn().Err(err).Msg("telemetry mirror close failed")
			}
		}

		s.state.Store(int32(StateStopped))
		close(s.done)
	})

	<-s.done

	return s.stopErr
}

// tick produces one record. Every failure is local to this tick: it is
// logged and the loop moves on, with the header state untouched unless the
// header itself was submitted.
func (s *Sampler) tick(ctx context.Context) {
	ts := s.clock().UTC()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("health snapshot unavailable, recording fallback")
		snap = power.Fallback()
	}

	if !s.headerWritten {
		if err := s.sink.Submit(Header); err != nil {
			logger.ErrorWithCode(errors.New().Wrap(ErrHeaderSubmit, err)).Msg("tick skipped")
			return
		}
		s.headerWritten = true
	}

	cameraConnected := s.flags.CameraConnected()
	usbDriveConnected := s.flags.RemovableStorageConnected()

	line := FormatRecord(ts, snap, cameraConnected, usbDriveConnected)
	if err := s.sink.Submit(line); err != nil {
		logger.ErrorWithCode(errors.New().Wrap(ErrRecordSubmit, err)).Msg("tick skipped")
		return
	}

	if s.mirror != nil {
		sample := &telemetry.Sample{
			Timestamp:         ts,
			BatteryLevel:      snap.BatteryLevel,
			BatteryVoltage:    snap.BatteryVoltage,
			ExternalPower:     snap.ExternalPower,
			CameraConnected:   cameraConnected,
			USBDriveConnected: usbDriveConnected,
		}
		if err := s.mirror.Record(ctx, sample); err != nil {
			logger.Warn().Err(err).Msg("telemetry mirror record failed")
		}
	}
}
