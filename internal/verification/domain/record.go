package domain

import (
	"time"

	"github.com/google/uuid"
)

// CodeRecord is a stored extraction result: the latest known verification
// code for one identifier, plus where it came from.
type CodeRecord struct {
	ID         uuid.UUID      `json:"id"`
	Identifier string         `json:"identifier"`
	Code       string         `json:"code"` // non-empty digit string, 2-10 chars
	Source     InboundMessage `json:"source"`
	ArrivedAt  time.Time      `json:"arrived_at"`
	Consumed   bool           `json:"consumed"`
}

// NewCodeRecord creates a CodeRecord for a code extracted from source.
// ArrivedAt is stamped at creation time; it is what freshness comparisons
// use, not the provider's own timestamp.
func NewCodeRecord(identifier, code string, source InboundMessage) *CodeRecord {
	return &CodeRecord{
		ID:         uuid.New(),
		Identifier: identifier,
		Code:       code,
		Source:     source,
		ArrivedAt:  time.Now().UTC(),
	}
}
