package http

import (
	"encoding/json"
	"encoding/xml"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/autosign/codegate/internal/verification/app"
	"github.com/autosign/codegate/internal/verification/domain"
	"github.com/autosign/codegate/internal/verification/extraction"
)

// twimlResponse is the ack payload the SMS provider expects in reply to a
// delivery callback.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// inboundSMSRequest is the JSON variant of the webhook payload; the default
// transport encoding is form data with the same field names.
type inboundSMSRequest struct {
	From string `json:"From"`
	Body string `json:"Body"`
}

// WebhookHandler receives inbound SMS delivery callbacks from the provider.
// It only classifies, extracts and writes the store; it never blocks on a
// coordinator wait, so the provider gets its ack immediately. Redelivery of
// the same message is harmless: the store is last-write-wins per identifier.
type WebhookHandler struct {
	processor *app.CodeProcessor
	logger    *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(processor *app.CodeProcessor, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		logger:    logger.With("handler", "webhook"),
	}
}

// HandleInboundSMS handles one provider callback carrying From and Body,
// form-encoded or JSON.
func (h *WebhookHandler) HandleInboundSMS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var from, body string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req inboundSMSRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WarnContext(ctx, "Failed to decode webhook JSON", "error", err)
			respondWithError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		from, body = req.From, req.Body
	} else {
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "Failed to parse webhook form", "error", err)
			respondWithError(w, http.StatusBadRequest, "invalid form payload")
			return
		}
		from = r.PostFormValue("From")
		body = r.PostFormValue("Body")
	}
	body = strings.TrimSpace(body)

	if from == "" {
		logger.WarnContext(ctx, "Webhook callback without sender identifier")
		respondWithError(w, http.StatusBadRequest, "From is required")
		return
	}

	webhookReceivedCounter.Inc()
	logger.InfoContext(ctx, "Received inbound SMS callback", "from", from)

	msg := domain.InboundMessage{
		Identifier: from,
		Body:       body,
		From:       from,
		ReceivedAt: time.Now().UTC(),
		Provenance: domain.ProvenancePushed,
	}
	rec := h.processor.ProcessPushMessage(ctx, msg, extraction.SMSLimits)

	ack := twimlResponse{Message: "Verification code received."}
	if rec == nil {
		ack.Message = "No verification code found. Please send just the code (e.g. 123456)."
	}

	// Always 200: a non-extractable body is not a transport failure, and a
	// retried delivery must not be provoked by an error status.
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(ack)
}
