package clients

import (
	"errors"
	"fmt"
)

// ErrEmptyArtifact is returned by Analyze before any request is made when
// the recording carries no audio.
var ErrEmptyArtifact = errors.New("artifact is empty")

// NetworkError means the endpoint could not be reached at all. The user's
// remediation is to check connectivity and retry; nothing was rejected.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("endpoint unreachable: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the endpoint was reached but rejected the request.
// Message carries the server-supplied error string when one was present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("analysis service: %s (HTTP %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("analysis service: HTTP %d", e.Status)
}

// Advice phrases the user-facing remediation for a failed submission.
func Advice(err error) string {
	var ne *NetworkError
	var se *ServerError
	var ie *InvalidResponseError
	switch {
	case errors.Is(err, ErrEmptyArtifact):
		return "the recording is empty; record again before submitting"
	case errors.As(err, &ne):
		return "could not reach the analysis service; check connectivity and try again"
	case errors.As(err, &se):
		return "the analysis service rejected the submission; check the input"
	case errors.As(err, &ie):
		return "the analysis service returned an unexpected body; report this as a bug"
	default:
		return "submission failed"
	}
}

// InvalidResponseError means a success response body could not be decoded
// as the expected structure. Treated as a defect and surfaced verbatim.
type InvalidResponseError struct {
	Err error
}

func (e *InvalidResponseError) Error() string { return fmt.Sprintf("invalid response: %v", e.Err) }
func (e *InvalidResponseError) Unwrap() error { return e.Err }
