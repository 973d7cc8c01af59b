package emotion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Score is one emotion label with its model confidence.
type Score struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Analysis summarizes a prosody pass over one audio payload.
type Analysis struct {
	Success       bool    `json:"success"`
	Emotions      []Score `json:"emotions"`
	Dominant      string  `json:"dominant_emotion"`
	DominantScore float64 `json:"dominant_score"`
	Error         string  `json:"error,omitempty"`
}

// Client talks to the Hume prosody streaming API over a websocket.
type Client struct {
	log    *logrus.Entry
	url    string
	apiKey string
	dialer *websocket.Dialer
}

func NewClient(log *logrus.Logger, url, apiKey string) *Client {
	return &Client{
		log:    log.WithField("component", "emotion"),
		url:    url,
		apiKey: apiKey,
		dialer: websocket.DefaultDialer,
	}
}

type streamRequest struct {
	Models struct {
		Prosody struct{} `json:"prosody"`
	} `json:"models"`
	Data string `json:"data"`
}

type streamResponse struct {
	Prosody *struct {
		Predictions []struct {
			Emotions []Score `json:"emotions"`
		} `json:"predictions"`
	} `json:"prosody"`
	Error string `json:"error"`
}

// AnalyzeVoice sends the audio payload through the prosody model and
// collects emotion scores across all predictions.
func (c *Client) AnalyzeVoice(ctx context.Context, audio []byte) (*Analysis, error) {
	header := http.Header{"X-Hume-Api-Key": {c.apiKey}}
	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return nil, fmt.Errorf("prosody dial: %w", err)
	}
	defer conn.Close()

	var req streamRequest
	req.Data = base64.StdEncoding.EncodeToString(audio)
	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("prosody send: %w", err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("prosody read: %w", err)
	}
	var resp streamResponse
	if err := json.Unmarshal(msg, &resp); err != nil {
		return nil, fmt.Errorf("prosody decode: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("prosody: %s", resp.Error)
	}
	if resp.Prosody == nil || len(resp.Prosody.Predictions) == 0 {
		return &Analysis{Success: false, Error: "no prosody data found in the response"}, nil
	}

	var scores []Score
	for _, pred := range resp.Prosody.Predictions {
		scores = append(scores, pred.Emotions...)
	}
	dom := Dominant(scores)
	c.log.WithFields(logrus.Fields{"emotions": len(scores), "dominant": dom.Name}).Debug("prosody analyzed")
	return &Analysis{
		Success:       true,
		Emotions:      scores,
		Dominant:      dom.Name,
		DominantScore: dom.Score,
	}, nil
}

// Dominant returns the highest-scoring emotion, or a zero Score for an
// empty list.
func Dominant(scores []Score) Score {
	var best Score
	for _, s := range scores {
		if s.Score > best.Score {
			best = s
		}
	}
	return best
}
