package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// SlideImage is one rendered page of the uploaded deck.
type SlideImage struct {
	Index int    `json:"index"`
	MIME  string `json:"mime"`
	Data  []byte `json:"data"` // base64 in transit
}

type RenderResp struct {
	Slides []SlideImage `json:"slides"`
}

// RenderSlides uploads a PDF to the rendering service and returns the pages
// as ordered images. Rasterization itself is the service's business.
func (h *HTTP) RenderSlides(ctx context.Context, url, pdfPath string) (*RenderResp, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(pdfPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/render", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("renderer %s: %s", resp.Status, string(body))
	}

	var out RenderResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("renderer decode: %w", err)
	}
	return &out, nil
}
