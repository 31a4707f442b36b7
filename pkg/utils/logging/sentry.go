package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
)

// InitSentry initializes the Sentry client and returns a closer that flushes
// pending events. Call only when a DSN is configured.
func InitSentry(dsn, env string) (func(), error) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}

// sentryHandler forwards error-level records to Sentry while delegating all
// records to the wrapped handler.
type sentryHandler struct {
	next slog.Handler
}

// WithSentry wraps the logger's handler so that error-level records are also
// reported to Sentry
func WithSentry(logger *slog.Logger) *slog.Logger {
	return slog.New(&sentryHandler{next: logger.Handler()})
}

func (h *sentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sentryHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError {
		event := sentry.NewEvent()
		event.Level = sentry.LevelError
		event.Message = record.Message
		record.Attrs(func(attr slog.Attr) bool {
			event.Extra[attr.Key] = attr.Value.String()
			return true
		})
		sentry.CaptureEvent(event)
	}
	return h.next.Handle(ctx, record)
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sentryHandler{next: h.next.WithAttrs(attrs)}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{next: h.next.WithGroup(name)}
}
