package http

import "time"

// ProcessCodeRequest injects a known code directly, bypassing extraction.
type ProcessCodeRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required,numeric,min=2,max=10"`
}

// VerifyCodeRequest submits a code for one-time consumption.
type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// VerifyCodeResponse reports a verify outcome. Mismatch and already-consumed
// are ordinary false results, never errors.
type VerifyCodeResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// CodeResponse is the stored-code view returned by the query surface.
type CodeResponse struct {
	Identifier string    `json:"identifier"`
	Code       string    `json:"code"`
	Provenance string    `json:"provenance"`
	ArrivedAt  time.Time `json:"arrived_at"`
}

// WaitResponse is returned by the bounded-wait endpoint on success.
type WaitResponse struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

// StatusResponse describes service health.
type StatusResponse struct {
	Status            string    `json:"status"`
	MailAPIConfigured bool      `json:"mail_api_configured"`
	StoredCodes       int       `json:"stored_codes"`
	Timestamp         time.Time `json:"timestamp"`
}

// ClearCodesResponse reports how many records a maintenance clear removed.
type ClearCodesResponse struct {
	Cleared int `json:"cleared"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
