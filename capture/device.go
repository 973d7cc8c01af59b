package capture

import (
	"context"
	"errors"

	"github.com/podium-coach/podium/config"
)

// ErrDeviceUnavailable is reported when exclusive access to the capture
// device cannot be obtained (no hardware, permission denied, missing binary).
var ErrDeviceUnavailable = errors.New("capture device unavailable")

// Events receives push-driven capture output. Data is called once per
// fragment in arrival order; Closed is called exactly once when the device
// stops delivering, with a nil error on clean shutdown.
type Events struct {
	Data   func(p []byte)
	Closed func(err error)
}

// Stream is a live, exclusively-owned capture stream. No Events fire before
// Record is called.
type Stream interface {
	// Record begins fragment delivery.
	Record(ev Events)
	// Finalize stops capture and returns after all pending fragments have
	// been delivered through Events.
	Finalize() error
	// Close abandons the stream without draining. Safe to call after
	// Finalize and safe to call more than once.
	Close() error
}

// Device grants exclusive access to an audio input. A failed Acquire must
// not leave any partially-acquired resource behind.
type Device interface {
	Acquire(ctx context.Context, cfg config.Audio) (Stream, error)
}
