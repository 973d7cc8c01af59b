package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podium-coach/podium/capture"
)

func testArtifact(n int) *capture.Artifact {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i)
	}
	return &capture.Artifact{Bytes: buf, MIMEType: "audio/wav"}
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotContext string
	var gotAudio []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/analyze", r.URL.Path)

		f, _, err := r.FormFile("audio")
		require.NoError(t, err)
		defer f.Close()
		gotAudio, err = io.ReadAll(f)
		require.NoError(t, err)
		gotContext = r.FormValue("context")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"emotionalAnalysis": {"dominant_emotion": "joy"}, "feedback": "well paced", "technicalMetrics": {"clarity": 0.8}}`))
	}))
	defer srv.Close()

	art := testArtifact(64)
	got, err := NewHTTP(0).Analyze(context.Background(), srv.URL, art, "Slide 2 of 5")
	require.NoError(t, err)

	assert.Equal(t, "Slide 2 of 5", gotContext)
	assert.Equal(t, art.Bytes, gotAudio)
	assert.Equal(t, "well paced", got.Feedback)
	assert.JSONEq(t, `{"dominant_emotion": "joy"}`, string(got.EmotionalAnalysis))
	assert.JSONEq(t, `{"clarity": 0.8}`, string(got.TechnicalMetrics))
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model unavailable"})
	}))
	defer srv.Close()

	_, err := NewHTTP(0).Analyze(context.Background(), srv.URL, testArtifact(8), "")
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "model unavailable", se.Message)
}

func TestAnalyzeServerErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTP(0).Analyze(context.Background(), srv.URL, testArtifact(8), "")
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.Equal(t, "busy", se.Message)
}

func TestAnalyzeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := NewHTTP(0).Analyze(context.Background(), srv.URL, testArtifact(8), "")
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
}

func TestAnalyzeInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewHTTP(0).Analyze(context.Background(), srv.URL, testArtifact(8), "")
	var ie *InvalidResponseError
	require.ErrorAs(t, err, &ie)
}

func TestAnalyzeEmptyArtifactRejected(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	_, err := NewHTTP(0).Analyze(context.Background(), srv.URL, &capture.Artifact{}, "ctx")
	assert.ErrorIs(t, err, ErrEmptyArtifact)
	_, err = NewHTTP(0).Analyze(context.Background(), srv.URL, nil, "ctx")
	assert.ErrorIs(t, err, ErrEmptyArtifact)
	assert.Zero(t, requests, "no request may be issued for an empty artifact")
}

func TestAdvice(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrEmptyArtifact, "the recording is empty; record again before submitting"},
		{&NetworkError{Err: errors.New("refused")}, "could not reach the analysis service; check connectivity and try again"},
		{&ServerError{Status: 500, Message: "x"}, "the analysis service rejected the submission; check the input"},
		{&InvalidResponseError{Err: errors.New("bad json")}, "the analysis service returned an unexpected body; report this as a bug"},
		{errors.New("other"), "submission failed"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Advice(tc.err))
	}
}
