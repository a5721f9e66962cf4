package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Belphemur/ShowCatalog/internal/config"
)

const (
	defaultRetryDelay    = 200 * time.Millisecond
	defaultRetryMaxDelay = 5 * time.Second
)

// newRetryPolicy retries transport errors, 429 and 5xx responses with
// exponential backoff. When retries are exhausted the last response is
// returned so the caller sees the real status code.
func newRetryPolicy(cfg *config.Config) retrypolicy.RetryPolicy[*http.Response] {
	delay := config.ParseDurationOr(cfg.Retry.Delay, defaultRetryDelay, "retry.delay")
	maxDelay := config.ParseDurationOr(cfg.Retry.MaxDelay, defaultRetryMaxDelay, "retry.max_delay")

	maxRetries := cfg.Retry.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	builder := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(shouldRetry).
		WithMaxRetries(maxRetries).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[*http.Response]) {
			discard(e.LastResult())

			logger := config.GetLogger()
			event := logger.Debug().Int("attempt", e.Attempts())
			if resp := e.LastResult(); resp != nil {
				event = event.Int("status", resp.StatusCode)
			}
			event.Err(e.LastError()).Msg("Retrying upstream request")
		})

	if maxDelay > delay {
		builder = builder.WithBackoff(delay, maxDelay)
	} else {
		builder = builder.WithDelay(delay)
	}

	return builder.Build()
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}

// discard drains and closes the body of a response that is about to be retried.
func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
