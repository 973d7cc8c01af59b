package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podium-coach/podium/capture"
	"github.com/podium-coach/podium/clients"
	cfg "github.com/podium-coach/podium/config"
)

// scriptedDevice delivers its fragments as soon as recording begins.
type scriptedDevice struct {
	fragments [][]byte
	acquires  int
}

type scriptedStream struct {
	fragments [][]byte
}

func (d *scriptedDevice) Acquire(ctx context.Context, _ cfg.Audio) (capture.Stream, error) {
	d.acquires++
	return &scriptedStream{fragments: d.fragments}, nil
}

func (s *scriptedStream) Record(ev capture.Events) {
	for _, f := range s.fragments {
		ev.Data(f)
	}
}
func (s *scriptedStream) Finalize() error { return nil }
func (s *scriptedStream) Close() error    { return nil }

func testConfig(t *testing.T, analysisURL string) *cfg.Root {
	t.Helper()
	c := &cfg.Root{}
	c.Audio = cfg.Audio{SampleRate: 16000, Channels: 1, Format: "wav"}
	c.Services.Analysis.URL = analysisURL
	c.Paths.Outputs = t.TempDir()
	return c
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func TestRehearsalRoundTrip(t *testing.T) {
	var gotAudioLen int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("audio")
		require.NoError(t, err)
		defer f.Close()
		buf := make([]byte, 1<<10)
		for {
			n, err := f.Read(buf)
			gotAudioLen += int64(n)
			if err != nil {
				break
			}
		}
		require.Equal(t, "Slide 2 of 5", r.FormValue("context"))
		w.Write([]byte(`{"feedback": "solid delivery", "emotionalAnalysis": {"dominant_emotion": "joy"}}`))
	}))
	defer srv.Close()

	conf := testConfig(t, srv.URL)
	dev := &scriptedDevice{fragments: [][]byte{make([]byte, 100), make([]byte, 200), make([]byte, 50)}}
	r := NewRehearsal(conf, quietLog(), dev)

	bundle, dir, err := r.Run(context.Background(), "Slide 2 of 5", closedChan())
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.EqualValues(t, 350, gotAudioLen)
	assert.Equal(t, "solid delivery", bundle.Feedback.Feedback)
	assert.Equal(t, 350, bundle.AudioBytes)
	assert.Equal(t, "Slide 2 of 5", bundle.SlideContext)

	// Bundle and recording land in the session directory.
	require.NotEmpty(t, dir)
	wav, err := os.ReadFile(filepath.Join(dir, "recording.wav"))
	require.NoError(t, err)
	assert.Len(t, wav, 350)
	_, err = os.Stat(filepath.Join(dir, "feedback.json"))
	require.NoError(t, err)

	// Session was reset on the way out; a new rehearsal can start.
	assert.Equal(t, capture.StateIdle, r.Session().State())
}

func TestRehearsalServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "model unavailable"}`))
	}))
	defer srv.Close()

	conf := testConfig(t, srv.URL)
	dev := &scriptedDevice{fragments: [][]byte{make([]byte, 10)}}
	r := NewRehearsal(conf, quietLog(), dev)

	_, _, err := r.Run(context.Background(), "", closedChan())
	var se *clients.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "model unavailable", se.Message)
	assert.Equal(t, capture.StateIdle, r.Session().State())
}

func TestRehearsalEmptyRecording(t *testing.T) {
	conf := testConfig(t, "http://localhost:1")
	r := NewRehearsal(conf, quietLog(), &scriptedDevice{})

	_, _, err := r.Run(context.Background(), "", closedChan())
	assert.ErrorIs(t, err, clients.ErrEmptyArtifact)
	assert.Equal(t, capture.StateIdle, r.Session().State())
}

func TestRehearsalDeviceDenied(t *testing.T) {
	conf := testConfig(t, "http://localhost:1")
	r := NewRehearsal(conf, quietLog(), &denyingDevice{})

	_, _, err := r.Run(context.Background(), "", closedChan())
	require.ErrorIs(t, err, capture.ErrDeviceUnavailable)
}

type denyingDevice struct{}

func (d *denyingDevice) Acquire(ctx context.Context, _ cfg.Audio) (capture.Stream, error) {
	return nil, capture.ErrDeviceUnavailable
}
