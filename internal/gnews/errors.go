package gnews

import (
	"fmt"
	"net/http"
)

// RetrievalError reports a failed provider query: transport failure,
// non-success status or an undecodable body.
type RetrievalError struct {
	Op         string // "top-headlines" or "search"
	StatusCode int    // zero when no response was received
	Message    string // provider-supplied error text, if any
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("gnews %s: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("gnews %s: request failed", e.Op)
	}

	msg := fmt.Sprintf("gnews %s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
