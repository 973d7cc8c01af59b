package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/podium-coach/podium/clients"
)

// Bundle is what a rehearsal leaves on disk next to the recording.
type Bundle struct {
	SessionID    string                  `json:"session_id"`
	SlideContext string                  `json:"slide_context"`
	RecordedAt   time.Time               `json:"recorded_at"`
	AudioBytes   int                     `json:"audio_bytes"`
	Feedback     *clients.FeedbackResult `json:"feedback"`
}

func newBundle(slideContext string, audioBytes int, feedback *clients.FeedbackResult) *Bundle {
	ts := time.Now()
	return &Bundle{
		SessionID:    "session_" + ts.Format("20060102-150405"),
		SlideContext: slideContext,
		RecordedAt:   ts,
		AudioBytes:   audioBytes,
		Feedback:     feedback,
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// persist writes feedback.json and recording.wav into a per-session
// directory under outputsRoot and returns the directory path.
func persist(outputsRoot string, bundle *Bundle, audio []byte) (string, error) {
	dir := filepath.Join(outputsRoot, bundle.SessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "feedback.json"), bundle); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "recording.wav"), audio, 0o644); err != nil {
		return "", err
	}
	return dir, nil
}
