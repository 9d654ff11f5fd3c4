package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 1 << 20

var (
	errServerError  = errors.New("server error")
	errClientError  = errors.New("client error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// Observer receives one observation per outbound provider request.
type Observer interface {
	ObserveUpstream(provider, endpoint string, err error, duration time.Duration)
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,

		// 4xx (bad key, bad request) says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClientError)
		},
	})
}

// doRequest executes a single GET through the circuit breaker and returns the
// response body. Non-2xx statuses are errors, but only 5xx and transport
// failures count against the breaker. There are no retries: a failed
// request is reported to the caller as-is.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	rawURL string,
) ([]byte, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%w: %d", errClientError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}
