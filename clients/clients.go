package clients

import (
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

// NewHTTP builds the shared client. A zero timeout falls back to a budget
// generous enough for the slowest model service.
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTP{c: &http.Client{Timeout: timeout}}
}
