package telemetry

import "fmt"

// FetchError reports a failed request: a non-2xx status, or a transport
// failure when StatusCode is 0.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("telemetry fetch failed: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("telemetry endpoint returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("telemetry endpoint returned %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a body that is not a JSON array of telemetry records.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("telemetry parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
