package providers

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errCircuitOpen      = errors.New("circuit breaker open")
	errNoHTTPClient     = errors.New("http client not configured")
)

// newCircuit returns the circuit breaker guarding one provider's endpoint.
// Requests are single-shot: a failed call becomes a failed per-city result
// upstream, never a retry.
func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// execute runs fn through the circuit breaker and normalizes breaker-state
// errors so callers can tell an open circuit from an endpoint failure.
func execute(cb *gobreaker.CircuitBreaker, fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}
	return result, nil
}

// statusError builds the error for a non-200 response, carrying the message
// the API returned in its body when one could be extracted.
func statusError(code int, message string) error {
	if message == "" {
		return fmt.Errorf("%w: %d", errUnexpectedStatus, code)
	}
	return fmt.Errorf("%w: %d: %s", errUnexpectedStatus, code, message)
}
