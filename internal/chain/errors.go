package chain

import (
	"fmt"
	"strings"
)

// AttemptError captures one rejected profile attempt.
type AttemptError struct {
	Profile string
	Err     error
}

// ExhaustedError is returned when every profile in the catalog was tried
// and none produced a usable response.
type ExhaustedError struct {
	Attempts []AttemptError
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "negotiation exhausted"
	}
	return fmt.Sprintf("negotiation exhausted: %d attempt(s)", len(e.Attempts))
}

// HTTPStatusError indicates a non-success player response status.
type HTTPStatusError struct {
	Profile    string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("player http status=%d profile=%s", e.StatusCode, e.Profile)
}

// PlayabilityError indicates the response explicitly marked the content
// unplayable or login-gated.
type PlayabilityError struct {
	Profile string
	Status  string
	Reason  string
}

func (e *PlayabilityError) Error() string {
	return fmt.Sprintf("unplayable status=%s profile=%s reason=%s", e.Status, e.Profile, e.Reason)
}

func (e *PlayabilityError) RequiresLogin() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "LOGIN") || strings.Contains(s, "SIGN IN")
}

// NoUsableFormatsError indicates a response that parsed fine but yielded
// zero usable descriptors after classification.
type NoUsableFormatsError struct {
	Profile string
}

func (e *NoUsableFormatsError) Error() string {
	return fmt.Sprintf("no usable formats profile=%s", e.Profile)
}
