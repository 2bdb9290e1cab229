package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autosign/codegate/internal/verification/domain"
	"github.com/autosign/codegate/internal/verification/extraction"
	"github.com/autosign/codegate/internal/verification/store"
)

func setupProcessorTest(t *testing.T) (*CodeProcessor, *store.CodeStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New()
	return NewCodeProcessor(st, logger), st
}

func TestCodeProcessor_InboxMessage_CodeInSubject(t *testing.T) {
	processor, st := setupProcessorTest(t)

	rec := processor.ProcessInboxMessage(context.Background(), domain.InboundMessage{
		Identifier: "agent@inbox.dev",
		Subject:    "GitHub launch code 482913",
		Body:       "",
		Provenance: domain.ProvenancePolled,
	}, extraction.MailLimits)

	require.NotNil(t, rec)
	assert.Equal(t, "482913", rec.Code)
	assert.Equal(t, "agent@inbox.dev", rec.Identifier)

	stored := st.Peek("agent@inbox.dev")
	require.NotNil(t, stored)
	assert.Equal(t, "482913", stored.Code)
	assert.Equal(t, domain.ProvenancePolled, stored.Source.Provenance)
}

func TestCodeProcessor_InboxMessage_CodeInBody(t *testing.T) {
	processor, st := setupProcessorTest(t)

	rec := processor.ProcessInboxMessage(context.Background(), domain.InboundMessage{
		Identifier: "agent@inbox.dev",
		Subject:    "Welcome to the service",
		Body:       "Your verification code: 654321",
		Provenance: domain.ProvenancePolled,
	}, extraction.MailLimits)

	require.NotNil(t, rec)
	assert.Equal(t, "654321", rec.Code)
	assert.Equal(t, 1, st.Len())
}

func TestCodeProcessor_InboxMessage_NotVerification(t *testing.T) {
	processor, st := setupProcessorTest(t)

	// No keyword anywhere: extraction must never be attempted, even though
	// the body contains a digit run.
	rec := processor.ProcessInboxMessage(context.Background(), domain.InboundMessage{
		Identifier: "agent@inbox.dev",
		Subject:    "Your order #2024 shipped",
		Body:       "Track package 882299 online",
		Provenance: domain.ProvenancePolled,
	}, extraction.MailLimits)

	assert.Nil(t, rec)
	assert.Equal(t, 0, st.Len())
}

func TestCodeProcessor_InboxMessage_KeywordWithoutCode(t *testing.T) {
	processor, st := setupProcessorTest(t)

	rec := processor.ProcessInboxMessage(context.Background(), domain.InboundMessage{
		Identifier: "agent@inbox.dev",
		Subject:    "Please verify your account",
		Body:       "Click the link below to continue",
		Provenance: domain.ProvenancePolled,
	}, extraction.MailLimits)

	assert.Nil(t, rec)
	assert.Equal(t, 0, st.Len())
}

func TestCodeProcessor_PushMessage(t *testing.T) {
	processor, st := setupProcessorTest(t)

	// A bare code in an SMS body is stored without keyword classification.
	rec := processor.ProcessPushMessage(context.Background(), domain.InboundMessage{
		Identifier: "+15551234567",
		Body:       "123456",
		Provenance: domain.ProvenancePushed,
	}, extraction.SMSLimits)

	require.NotNil(t, rec)
	assert.Equal(t, "123456", rec.Code)
	assert.Equal(t, 1, st.Len())
}

func TestCodeProcessor_PushMessage_TooShortForSMS(t *testing.T) {
	processor, st := setupProcessorTest(t)

	rec := processor.ProcessPushMessage(context.Background(), domain.InboundMessage{
		Identifier: "+15551234567",
		Body:       "123",
		Provenance: domain.ProvenancePushed,
	}, extraction.SMSLimits)

	assert.Nil(t, rec)
	assert.Equal(t, 0, st.Len())
}

func TestCodeProcessor_EmptyIdentifierDropped(t *testing.T) {
	processor, st := setupProcessorTest(t)

	rec := processor.ProcessPushMessage(context.Background(), domain.InboundMessage{
		Body:       "123456",
		Provenance: domain.ProvenancePushed,
	}, extraction.SMSLimits)

	assert.Nil(t, rec)
	assert.Equal(t, 0, st.Len())
}
