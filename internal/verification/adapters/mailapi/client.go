package mailapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/autosign/codegate/internal/verification/domain"
)

// Client pulls message listings from a REST inbox provider
// (AgentMail-compatible API shape: GET /v0/inboxes/{id}/messages with a
// Bearer key).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given API base URL and key.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With("adapter", "mailapi"),
	}
}

// listResponse mirrors the provider payload. Fields the provider omits or
// renames simply decode to their zero values; a missing field is never an
// error, only a malformed body is.
type listResponse struct {
	Messages []messageRecord `json:"messages"`
}

type messageRecord struct {
	Subject   string `json:"subject"`
	Preview   string `json:"preview"`
	Text      string `json:"text"`
	Body      string `json:"body"`
	From      string `json:"from"`
	MessageID string `json:"message_id"`
}

// content picks the first populated text field; providers disagree on what
// the primary body field is called.
func (m messageRecord) content() string {
	for _, s := range []string{m.Preview, m.Text, m.Body} {
		if s != "" {
			return s
		}
	}
	return ""
}

// ListMessages returns the inbox's messages in the provider's listing order,
// which the provider guarantees to be newest-first. Network failures, non-2xx
// responses and malformed payloads all surface as *domain.TransportError so
// the coordinator's wait loop treats them as transient.
func (c *Client) ListMessages(ctx context.Context, identifier string) ([]domain.InboundMessage, error) {
	endpoint := fmt.Sprintf("%s/v0/inboxes/%s/messages", c.baseURL, url.PathEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "list_messages", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "list_messages", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.TransportError{
			Op:         "list_messages",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &domain.TransportError{
			Op:         "list_messages",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode payload: %w", err),
		}
	}

	now := time.Now().UTC()
	msgs := make([]domain.InboundMessage, 0, len(payload.Messages))
	for i, m := range payload.Messages {
		msgs = append(msgs, domain.InboundMessage{
			Identifier:        identifier,
			Subject:           m.Subject,
			Body:              m.content(),
			From:              m.From,
			ProviderMessageID: m.MessageID,
			ReceivedOrder:     len(payload.Messages) - i, // index 0 is the newest message
			ReceivedAt:        now,
			Provenance:        domain.ProvenancePolled,
		})
	}

	c.logger.DebugContext(ctx, "Listed inbox messages", "identifier", identifier, "count", len(msgs))
	return msgs, nil
}
