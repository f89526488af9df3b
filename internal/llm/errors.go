package llm

import "errors"

var (
	// ErrAuthFailed indicates the API key was missing, invalid or revoked.
	ErrAuthFailed = errors.New("llm authentication failed")

	// ErrRateLimited indicates the service rejected the call for quota reasons.
	ErrRateLimited = errors.New("llm rate limit exceeded")

	// ErrUnavailable indicates the service could not be reached.
	ErrUnavailable = errors.New("llm service unavailable")

	// ErrEmptyResponse indicates the service answered with no generated text.
	ErrEmptyResponse = errors.New("llm returned an empty response")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)

// Retryable reports whether a failed call may succeed on a bounded retry.
// Authentication and parse failures never are.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimited)
}
