package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/podium-coach/podium/config"
)

// State models the recording lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring_device"
	StateRecording State = "recording"
	StateStopped   State = "stopped"
	StateFailed    State = "failed"
)

var (
	// ErrSessionActive is returned by Start while a device acquisition or
	// recording is already underway.
	ErrSessionActive = errors.New("recording already in progress")
	// ErrNeedsReset is returned by Start from a terminal state; call Reset
	// first so the previous artifact's playback handle is released.
	ErrNeedsReset = errors.New("session holds a finished recording, reset first")
	// ErrSuperseded is returned by Start when the session was reset while
	// the device grant was still pending.
	ErrSuperseded = errors.New("recording superseded by reset")
)

// Session owns the device-acquisition → record → stop → playback-ready
// lifecycle. One Session is live at a time; all methods are safe for
// concurrent use but the intended model is a single event-driven caller.
type Session struct {
	log    *logrus.Entry
	device Device
	cfg    config.Audio

	mu       sync.Mutex
	state    State
	gen      uuid.UUID // identity of the current acquisition attempt
	stream   Stream
	chunks   [][]byte
	artifact *Artifact
	lastErr  error
	stopping bool
}

func NewSession(log *logrus.Logger, device Device, cfg config.Audio) *Session {
	return &Session{
		log:    log.WithField("component", "capture"),
		device: device,
		cfg:    cfg,
		state:  StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that drove the session into StateFailed, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Artifact returns the finalized recording, or nil before Stop.
func (s *Session) Artifact() *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// Start acquires the capture device and begins accumulating fragments as the
// device pushes them. On device denial the session moves to StateFailed and
// the error wraps ErrDeviceUnavailable; Reset then Start to retry.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateAcquiring, StateRecording:
		s.mu.Unlock()
		return ErrSessionActive
	case StateStopped, StateFailed:
		s.mu.Unlock()
		return ErrNeedsReset
	}
	s.state = StateAcquiring
	s.gen = uuid.New()
	gen := s.gen
	s.chunks = nil
	s.mu.Unlock()

	s.log.WithField("session", gen).Debug("acquiring capture device")
	stream, err := s.device.Acquire(ctx, s.cfg)

	s.mu.Lock()
	if gen != s.gen {
		// Reset discarded interest in this acquisition while it was
		// pending; whatever was granted must still be released.
		s.mu.Unlock()
		if stream != nil {
			stream.Close()
		}
		return ErrSuperseded
	}
	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		s.mu.Unlock()
		s.log.WithError(err).Warn("device acquisition failed")
		return err
	}
	s.stream = stream
	s.state = StateRecording
	s.mu.Unlock()

	stream.Record(Events{
		Data:   func(p []byte) { s.onData(gen, p) },
		Closed: func(err error) { s.onClosed(gen, err) },
	})
	s.log.WithField("session", gen).Info("recording")
	return nil
}

// Stop finalizes the device stream, concatenates the accumulated fragments
// into an Artifact, and releases the device handle. Calling Stop outside
// StateRecording is a no-op: the device may already be releasing.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StateRecording || s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	stream := s.stream
	s.mu.Unlock()

	// Fragments still in flight keep landing via onData until the drain
	// completes; state stays StateRecording so they are accepted.
	err := stream.Finalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopping = false
	if s.state != StateRecording {
		// A device error or reset won the race during the drain.
		return err
	}
	s.finalizeLocked()
	return err
}

// Reset returns the session to StateIdle from any state, releasing the
// current artifact's playback handle and discarding interest in any pending
// acquisition or in-flight fragments. Idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	stream := s.stream
	artifact := s.artifact
	s.stream = nil
	s.artifact = nil
	s.chunks = nil
	s.lastErr = nil
	s.gen = uuid.Nil // stale callbacks for the old generation are dropped
	s.state = StateIdle
	s.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
	artifact.Release()
}

func (s *Session) onData(gen uuid.UUID, p []byte) {
	if len(p) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != StateRecording {
		return // superseded or not yet recording
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	s.chunks = append(s.chunks, buf)
}

func (s *Session) onClosed(gen uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	if s.state != StateRecording {
		return
	}
	if err == nil {
		if s.stopping {
			// Stop drives the transition once the drain returns.
			return
		}
		// Device hit end of stream on its own; treat as a stop.
		s.finalizeLocked()
		return
	}
	s.failLocked(fmt.Errorf("device error while recording: %w", err))
}

// finalizeLocked freezes the fragment sequence into an Artifact and releases
// the device. Runs exactly once per recording: every caller has already
// checked state is StateRecording under the lock.
func (s *Session) finalizeLocked() {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}

	total := 0
	for _, c := range s.chunks {
		total += len(c)
	}
	buf := make([]byte, 0, total)
	for _, c := range s.chunks {
		buf = append(buf, c...)
	}
	s.chunks = nil

	art := &Artifact{Bytes: buf, MIMEType: mimeFor(s.cfg.Format)}
	if path, err := writePlayback(buf); err != nil {
		s.log.WithError(err).Warn("playback file not written")
	} else {
		art.PlaybackPath = path
	}
	s.artifact = art
	s.state = StateStopped
	s.log.WithField("bytes", total).Info("recording stopped")
}

func (s *Session) failLocked(err error) {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
	s.chunks = nil
	s.lastErr = err
	s.state = StateFailed
	s.log.WithError(err).Warn("recording failed")
}

func mimeFor(format string) string {
	switch format {
	case "", "wav":
		return "audio/wav"
	default:
		return "audio/" + format
	}
}

func writePlayback(audio []byte) (string, error) {
	f, err := os.CreateTemp("", "podium-*.wav")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
