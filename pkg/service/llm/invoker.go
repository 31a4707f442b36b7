package llm

import (
	"context"
	"time"

	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNoModelAvailable is returned when every model in the fallback chain
// failed to produce a response
var ErrNoModelAvailable = goerr.New("no model available")

// Generator produces a completion for a prompt. Implemented by the gollem
// adapter in production and by fakes in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Model is one entry of the fallback chain
type Model struct {
	ID        string
	Generator Generator
}

// Invoker tries each configured model in order until one succeeds.
// The chain order is fixed at construction and does not reorder on failure.
type Invoker struct {
	models  []Model
	timeout time.Duration
}

const defaultTimeout = 30 * time.Second

type InvokerOption func(*Invoker)

// WithTimeout sets the per-model call timeout
func WithTimeout(d time.Duration) InvokerOption {
	return func(inv *Invoker) {
		inv.timeout = d
	}
}

func NewInvoker(models []Model, opts ...InvokerOption) (*Invoker, error) {
	if len(models) == 0 {
		return nil, goerr.New("at least one model is required")
	}
	for _, m := range models {
		if m.ID == "" || m.Generator == nil {
			return nil, goerr.New("model ID and generator are required")
		}
	}

	inv := &Invoker{
		models:  models,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(inv)
	}

	return inv, nil
}

// Models returns the IDs of the fallback chain in invocation order
func (inv *Invoker) Models() []string {
	ids := make([]string, len(inv.models))
	for i, m := range inv.models {
		ids[i] = m.ID
	}
	return ids
}

// Generate invokes the chain for the given prompt. Each model gets one
// attempt with its own timeout; the first non-empty response wins. When
// all models fail the last failure is attached to ErrNoModelAvailable.
func (inv *Invoker) Generate(ctx context.Context, prompt string) (string, error) {
	logger := logging.From(ctx)

	var lastErr error
	for _, m := range inv.models {
		if err := ctx.Err(); err != nil {
			return "", goerr.Wrap(err, "context cancelled before model invocation", goerr.V("model", m.ID))
		}

		resp, err := inv.generateOnce(ctx, m, prompt)
		if err != nil {
			logger.Warn("model invocation failed, trying next",
				"model", m.ID,
				"error", err)
			lastErr = err
			continue
		}
		if resp == "" {
			logger.Warn("model returned empty response, trying next", "model", m.ID)
			lastErr = goerr.New("empty response", goerr.V("model", m.ID))
			continue
		}

		return resp, nil
	}

	return "", goerr.Wrap(ErrNoModelAvailable, "all models in fallback chain failed",
		goerr.V("models", inv.Models()),
		goerr.V("lastError", lastErr))
}

func (inv *Invoker) generateOnce(ctx context.Context, m Model, prompt string) (string, error) {
	callCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	return m.Generator.Generate(callCtx, prompt)
}
