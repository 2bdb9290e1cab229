package app

import (
	"context"
	"log/slog"

	"github.com/autosign/codegate/internal/verification/domain"
	"github.com/autosign/codegate/internal/verification/extraction"
	"github.com/autosign/codegate/internal/verification/store"
)

// CodeProcessor runs the classify-extract-store pipeline shared by the
// polling loop and the inbound webhook. It is the only writer of the code
// store besides the direct-injection endpoint.
type CodeProcessor struct {
	store  *store.CodeStore
	logger *slog.Logger
}

// NewCodeProcessor creates a new CodeProcessor instance.
func NewCodeProcessor(st *store.CodeStore, logger *slog.Logger) *CodeProcessor {
	return &CodeProcessor{
		store:  st,
		logger: logger.With("component", "processor"),
	}
}

// ProcessInboxMessage handles one message pulled from an inbox listing.
// The message must first pass keyword classification (inboxes are full of
// unrelated mail); extraction then tries the subject before the body, since
// some providers put the code in the subject line. Returns the stored record,
// or nil when the message does not carry a code.
func (p *CodeProcessor) ProcessInboxMessage(ctx context.Context, msg domain.InboundMessage, limits extraction.Limits) *domain.CodeRecord {
	if msg.Identifier == "" {
		p.logger.WarnContext(ctx, "Dropping message with empty identifier", "provider_message_id", msg.ProviderMessageID)
		return nil
	}
	if !extraction.IsVerificationMessage(msg.Subject, msg.Body) {
		return nil
	}
	code, ruleName, ok := extraction.Extract(msg.Subject, limits)
	if !ok {
		code, ruleName, ok = extraction.Extract(msg.Body, limits)
	}
	if !ok {
		p.logger.DebugContext(ctx, "Verification message without extractable code",
			"identifier", msg.Identifier, "subject", msg.Subject)
		return nil
	}
	return p.storeCode(ctx, msg, code, ruleName)
}

// ProcessPushMessage handles one message delivered by an inbound webhook.
// Push messages are addressed to a number we own specifically for receiving
// codes, so there is no unrelated traffic to filter: extraction runs on the
// body directly, without keyword classification.
func (p *CodeProcessor) ProcessPushMessage(ctx context.Context, msg domain.InboundMessage, limits extraction.Limits) *domain.CodeRecord {
	if msg.Identifier == "" {
		p.logger.WarnContext(ctx, "Dropping pushed message with empty identifier")
		return nil
	}
	code, ruleName, ok := extraction.Extract(msg.Body, limits)
	if !ok {
		p.logger.InfoContext(ctx, "No verification code found in pushed message",
			"identifier", msg.Identifier)
		return nil
	}
	return p.storeCode(ctx, msg, code, ruleName)
}

func (p *CodeProcessor) storeCode(ctx context.Context, msg domain.InboundMessage, code, ruleName string) *domain.CodeRecord {
	rec := domain.NewCodeRecord(msg.Identifier, code, msg)
	p.store.Put(rec)
	codesExtractedCounter.WithLabelValues(string(msg.Provenance), ruleName).Inc()
	p.logger.InfoContext(ctx, "Stored verification code",
		"identifier", msg.Identifier,
		"record_id", rec.ID,
		"rule", ruleName,
		"provenance", msg.Provenance,
	)
	return rec
}
