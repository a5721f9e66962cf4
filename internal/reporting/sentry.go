// Package reporting forwards absorbed failures to Sentry when a DSN is configured.
package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/ShowCatalog/internal/apperrors"
	"github.com/Belphemur/ShowCatalog/internal/config"
)

const flushTimeout = 2 * time.Second

// Init configures the Sentry client. With an empty DSN nothing is sent and
// the returned flush function is a no-op.
func Init(cfg *config.Config, release string) (func(), error) {
	if cfg.Sentry.DSN == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, err
	}

	return func() { sentry.Flush(flushTimeout) }, nil
}

// Reportable reports whether err is worth sending. Cancellations and
// missing resources are expected during normal browsing.
func Reportable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, &apperrors.ErrNotFound{}) {
		return false
	}
	return true
}

// CaptureError sends err to Sentry tagged with the catalog operation that absorbed it.
func CaptureError(operation string, err error) {
	if !Reportable(err) {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", operation)
		sentry.CaptureException(err)
	})
}
