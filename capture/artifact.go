package capture

import (
	"os"
	"sync"
)

// Artifact is the finalized audio payload of a completed recording. Bytes
// are immutable once built; PlaybackPath points at a temp file kept for
// local playback until Release is called.
type Artifact struct {
	Bytes    []byte
	MIMEType string

	PlaybackPath string
	releaseOnce  sync.Once
}

// Release removes the playback file. Idempotent; a second call is a no-op.
func (a *Artifact) Release() {
	if a == nil {
		return
	}
	a.releaseOnce.Do(func() {
		if a.PlaybackPath != "" {
			os.Remove(a.PlaybackPath)
		}
	})
}

// Empty reports whether the artifact carries no audio.
func (a *Artifact) Empty() bool { return a == nil || len(a.Bytes) == 0 }
