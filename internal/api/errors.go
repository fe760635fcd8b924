package api

import "fmt"

// fallbackMessage is shown when the backend does not supply one.
const fallbackMessage = "Something went wrong"

// RequestError is returned for any non-2xx response. Message is taken
// from the response body's "message" field when present, else the
// generic fallback. The helper does not special-case any status code;
// interpreting 401 and friends is the caller's job.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *RequestError) Unauthorized() bool {
	return e.StatusCode == 401
}

// errorEnvelope is the backend's error body shape. Only the message
// field is contractual; everything else is ignored.
type errorEnvelope struct {
	Message string `json:"message"`
}
