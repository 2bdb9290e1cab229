package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/autosign/codegate/internal/verification/domain"
	"github.com/autosign/codegate/internal/verification/extraction"
	"github.com/autosign/codegate/internal/verification/store"
)

// MessageSource lists an identifier's messages. Implementations must return
// them newest-first (the pull adapter contract) and report transient
// failures as *domain.TransportError.
type MessageSource interface {
	ListMessages(ctx context.Context, identifier string) ([]domain.InboundMessage, error)
}

const defaultPollInterval = 5 * time.Second

// WaitOptions bound one acquisition attempt.
type WaitOptions struct {
	// Timeout is the total wait budget. Zero means a single immediate check
	// with no sleeping.
	Timeout time.Duration
	// PollInterval is the sleep between attempts; defaults to 5s when zero.
	PollInterval time.Duration
	// Fresh requires the code to postdate the call: pull mode only accepts
	// a message batch larger than the count captured at call start, push
	// mode only a record stored after it. This guards a retried signup flow
	// against silently reusing a stale code from a previous attempt.
	Fresh bool
}

// Coordinator drives code acquisition for callers under a bounded wait.
// With a source configured it polls the provider's listing API; without one
// it watches the store, which the webhook handler populates concurrently.
type Coordinator struct {
	source    MessageSource // nil in webhook-only deployments
	processor *CodeProcessor
	store     *store.CodeStore
	limits    extraction.Limits
	logger    *slog.Logger
}

// NewCoordinator creates a Coordinator. source may be nil, in which case
// waits run in push mode against the store only.
func NewCoordinator(source MessageSource, processor *CodeProcessor, st *store.CodeStore, limits extraction.Limits, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		source:    source,
		processor: processor,
		store:     st,
		limits:    limits,
		logger:    logger.With("component", "coordinator"),
	}
}

// WaitForCode blocks until a verification code for identifier is available
// or opts.Timeout elapses. A timeout is an ordinary outcome, not an error:
// the result is simply empty and the caller makes its own retry/abort
// decision. The only error returned is context cancellation. Transient
// transport failures are logged and retried until the deadline.
func (c *Coordinator) WaitForCode(ctx context.Context, identifier string, opts WaitOptions) (string, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	start := time.Now()
	deadline := start.Add(opts.Timeout)
	logger := c.logger.With("identifier", identifier)

	baseline := -1
	if opts.Fresh && c.source != nil {
		msgs, err := c.source.ListMessages(ctx, identifier)
		if err != nil {
			// Treat an unreadable baseline as an empty inbox: the next
			// successful listing counts as new messages.
			logger.WarnContext(ctx, "Baseline listing failed", "error", err)
			baseline = 0
		} else {
			baseline = len(msgs)
			logger.DebugContext(ctx, "Captured freshness baseline", "message_count", baseline)
		}
	}

	for {
		code, found := c.attempt(ctx, logger, identifier, start, baseline, opts)
		if found {
			waitOutcomesCounter.WithLabelValues("found").Inc()
			return code, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			waitOutcomesCounter.WithLabelValues("expired").Inc()
			logger.InfoContext(ctx, "No verification code within budget", "timeout", opts.Timeout)
			return "", nil
		}

		sleep := opts.PollInterval
		if sleep > remaining {
			sleep = remaining
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			waitOutcomesCounter.WithLabelValues("cancelled").Inc()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// attempt makes one non-blocking acquisition pass.
func (c *Coordinator) attempt(ctx context.Context, logger *slog.Logger, identifier string, start time.Time, baseline int, opts WaitOptions) (string, bool) {
	if c.source != nil {
		msgs, err := c.source.ListMessages(ctx, identifier)
		if err != nil {
			pollErrorsCounter.Inc()
			logger.WarnContext(ctx, "Listing messages failed, will retry", "error", err)
			return "", false
		}
		pollAttemptsCounter.Inc()
		if opts.Fresh && len(msgs) <= baseline {
			return "", false
		}
		// Messages arrive newest-first, so the first classified+extracted
		// hit is authoritative; don't exhaust the rest of the list.
		for _, msg := range msgs {
			if rec := c.processor.ProcessInboxMessage(ctx, msg, c.limits); rec != nil {
				return rec.Code, true
			}
		}
		return "", false
	}

	// Push mode: the webhook handler writes the store concurrently with
	// this check.
	rec := c.store.Peek(identifier)
	if rec == nil {
		return "", false
	}
	if opts.Fresh && !rec.ArrivedAt.After(start) {
		return "", false
	}
	return rec.Code, true
}
