package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/podium-coach/podium/capture"
)

// FeedbackResult is the analysis service's response, passed through to the
// presentation layer. The inner schemas are owned by the service; they are
// relayed, not interpreted.
type FeedbackResult struct {
	EmotionalAnalysis json.RawMessage `json:"emotionalAnalysis,omitempty"`
	Feedback          string          `json:"feedback,omitempty"`
	Prompt            string          `json:"prompt,omitempty"`
	TechnicalMetrics  json.RawMessage `json:"technicalMetrics,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Analyze submits a finished recording plus its slide context to the
// analysis endpoint as a single multipart POST. No retry is performed here;
// failures come back typed (NetworkError, ServerError, InvalidResponseError)
// so the caller can phrase remediation. Callers are responsible for keeping
// at most one submission in flight per session.
func (h *HTTP) Analyze(ctx context.Context, url string, artifact *capture.Artifact, slideContext string) (*FeedbackResult, error) {
	if artifact.Empty() {
		return nil, ErrEmptyArtifact
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("audio", "recording.wav")
	if err != nil {
		return nil, err
	}
	if _, err = fw.Write(artifact.Bytes); err != nil {
		return nil, err
	}
	if err = w.WriteField("context", slideContext); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/analyze", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		if eb.Error == "" {
			eb.Error = string(bytes.TrimSpace(body))
		}
		return nil, &ServerError{Status: resp.StatusCode, Message: eb.Error}
	}

	var out FeedbackResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &InvalidResponseError{Err: err}
	}
	return &out, nil
}
