package mailapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autosign/codegate/internal/verification/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_ListMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v0/inboxes/agent@inbox.dev/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"messages": [
				{"subject": "Verify your email", "preview": "Your verification code: 123456", "from": "noreply@github.com", "message_id": "m-2"},
				{"subject": "Welcome", "preview": "Thanks for signing up", "from": "noreply@github.com", "message_id": "m-1"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", discardLogger())
	msgs, err := client.ListMessages(context.Background(), "agent@inbox.dev")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	// Provider order (newest-first) is preserved; position 0 is newest.
	assert.Equal(t, "Verify your email", msgs[0].Subject)
	assert.Equal(t, "Your verification code: 123456", msgs[0].Body)
	assert.Equal(t, "m-2", msgs[0].ProviderMessageID)
	assert.Greater(t, msgs[0].ReceivedOrder, msgs[1].ReceivedOrder)

	for _, m := range msgs {
		assert.Equal(t, "agent@inbox.dev", m.Identifier)
		assert.Equal(t, domain.ProvenancePolled, m.Provenance)
	}
}

func TestClient_ListMessages_MissingFieldsDegrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No subject, content under "text" instead of "preview", no from.
		_, _ = w.Write([]byte(`{"messages": [{"text": "code: 9981", "message_id": "m-1"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", discardLogger())
	msgs, err := client.ListMessages(context.Background(), "agent@inbox.dev")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].Subject)
	assert.Equal(t, "code: 9981", msgs[0].Body)
	assert.Empty(t, msgs[0].From)
}

func TestClient_ListMessages_EmptyInbox(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", discardLogger())
	msgs, err := client.ListMessages(context.Background(), "agent@inbox.dev")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestClient_ListMessages_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", discardLogger())
	msgs, err := client.ListMessages(context.Background(), "agent@inbox.dev")
	assert.Nil(t, msgs)
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
}

func TestClient_ListMessages_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages": [`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", discardLogger())
	_, err := client.ListMessages(context.Background(), "agent@inbox.dev")
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
}

func TestClient_ListMessages_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down immediately

	client := NewClient(server.URL, "test-key", discardLogger())
	_, err := client.ListMessages(context.Background(), "agent@inbox.dev")
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
}
