package domain

import "time"

// Provenance tags which transport a message entered the system through.
// It is diagnostic only; no correctness decision depends on it.
type Provenance string

const (
	// ProvenancePolled marks messages fetched from a provider's listing API.
	ProvenancePolled Provenance = "polled"
	// ProvenancePushed marks messages delivered by an inbound webhook.
	ProvenancePushed Provenance = "pushed"
	// ProvenanceAPI marks codes injected directly through the HTTP surface.
	ProvenanceAPI Provenance = "api"
)

// InboundMessage is one raw unit from a provider, normalized across
// transports. Identifier is the owning inbox address or phone number and is
// never empty; Body may be empty (classification then falls back to the
// subject, and extraction on an empty body yields no code).
type InboundMessage struct {
	Identifier        string     `json:"identifier"`
	Subject           string     `json:"subject,omitempty"` // email only, empty for SMS
	Body              string     `json:"body"`
	From              string     `json:"from,omitempty"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	ReceivedOrder     int        `json:"received_order"` // strictly higher means newer
	ReceivedAt        time.Time  `json:"received_at"`
	Provenance        Provenance `json:"provenance"`
}
