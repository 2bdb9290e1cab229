package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/autosign/codegate/internal/verification/app"
	"github.com/autosign/codegate/internal/verification/domain"
	"github.com/autosign/codegate/internal/verification/store"
)

// CodeHandlerConfig carries the wait defaults and deployment facts the
// handler reports.
type CodeHandlerConfig struct {
	MailAPIConfigured  bool
	DefaultWaitTimeout time.Duration
	PollInterval       time.Duration
}

// CodeHandler exposes the stored-code query surface: read, verify
// (consume-once), direct injection, bounded wait, and maintenance clear.
type CodeHandler struct {
	store       *store.CodeStore
	coordinator *app.Coordinator
	validate    *validator.Validate
	logger      *slog.Logger
	cfg         CodeHandlerConfig
}

// NewCodeHandler creates a new CodeHandler.
func NewCodeHandler(st *store.CodeStore, coordinator *app.Coordinator, validate *validator.Validate, logger *slog.Logger, cfg CodeHandlerConfig) *CodeHandler {
	return &CodeHandler{
		store:       st,
		coordinator: coordinator,
		validate:    validate,
		logger:      logger.With("handler", "codes"),
		cfg:         cfg,
	}
}

// RegisterRoutes mounts the handler's routes on the given router.
func (h *CodeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.Status)
	r.Post("/codes", h.ProcessCode)
	r.Delete("/codes", h.ClearCodes)
	r.Get("/codes/{identifier}", h.GetLatestCode)
	r.Post("/codes/{identifier}/verify", h.VerifyCode)
	r.Get("/codes/{identifier}/wait", h.WaitForCode)
}

// Status reports service health and the current store size.
func (h *CodeHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, StatusResponse{
		Status:            "running",
		MailAPIConfigured: h.cfg.MailAPIConfigured,
		StoredCodes:       h.store.Len(),
		Timestamp:         time.Now().UTC(),
	})
}

// ProcessCode stores a caller-supplied code directly, without extraction.
func (h *CodeHandler) ProcessCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req ProcessCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "Failed to decode process-code request", "error", err)
		respondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Failed to validate process-code request", "error", err)
		respondWithError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	rec := domain.NewCodeRecord(req.Identifier, req.Code, domain.InboundMessage{
		Identifier: req.Identifier,
		Body:       req.Code,
		ReceivedAt: time.Now().UTC(),
		Provenance: domain.ProvenanceAPI,
	})
	h.store.Put(rec)
	logger.InfoContext(ctx, "Stored injected verification code", "identifier", req.Identifier, "record_id", rec.ID)

	respondWithJSON(w, http.StatusOK, CodeResponse{
		Identifier: rec.Identifier,
		Code:       rec.Code,
		Provenance: string(rec.Source.Provenance),
		ArrivedAt:  rec.ArrivedAt,
	})
}

// GetLatestCode returns the current stored code for an identifier without
// consuming it.
func (h *CodeHandler) GetLatestCode(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	rec := h.store.Peek(identifier)
	if rec == nil {
		respondWithError(w, http.StatusNotFound, "no verification code found")
		return
	}
	respondWithJSON(w, http.StatusOK, CodeResponse{
		Identifier: rec.Identifier,
		Code:       rec.Code,
		Provenance: string(rec.Source.Provenance),
		ArrivedAt:  rec.ArrivedAt,
	})
}

// VerifyCode performs the one-time compare-and-consume. A mismatch is a 200
// with verified=false; only a completely absent record is a 404.
func (h *CodeHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))
	identifier := chi.URLParam(r, "identifier")

	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "Failed to decode verify request", "error", err)
		respondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	if h.store.TakeIfMatches(identifier, req.Code) {
		verifyOutcomesCounter.WithLabelValues("verified").Inc()
		logger.InfoContext(ctx, "Verification code consumed", "identifier", identifier)
		respondWithJSON(w, http.StatusOK, VerifyCodeResponse{Verified: true, Message: "code verified successfully"})
		return
	}

	if h.store.Peek(identifier) == nil {
		verifyOutcomesCounter.WithLabelValues("not_found").Inc()
		respondWithError(w, http.StatusNotFound, "no verification code found for this identifier")
		return
	}

	verifyOutcomesCounter.WithLabelValues("mismatch").Inc()
	logger.InfoContext(ctx, "Verification code mismatch", "identifier", identifier)
	respondWithJSON(w, http.StatusOK, VerifyCodeResponse{Verified: false, Message: "invalid verification code"})
}

// WaitForCode is the HTTP face of the acquisition coordinator: it blocks up
// to timeout_s seconds for a code to become available. Expiry is a 404, not
// a 5xx; the caller decides whether to retry.
func (h *CodeHandler) WaitForCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))
	identifier := chi.URLParam(r, "identifier")

	timeout := h.cfg.DefaultWaitTimeout
	if raw := r.URL.Query().Get("timeout_s"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			respondWithError(w, http.StatusBadRequest, "timeout_s must be a non-negative integer")
			return
		}
		timeout = time.Duration(secs) * time.Second
	}
	fresh := r.URL.Query().Get("fresh") == "true"

	code, err := h.coordinator.WaitForCode(ctx, identifier, app.WaitOptions{
		Timeout:      timeout,
		PollInterval: h.cfg.PollInterval,
		Fresh:        fresh,
	})
	if err != nil {
		// Client went away; nothing useful to write.
		logger.InfoContext(ctx, "Wait cancelled by caller", "identifier", identifier, "error", err)
		return
	}
	if code == "" {
		respondWithError(w, http.StatusNotFound, "no verification code within timeout")
		return
	}
	respondWithJSON(w, http.StatusOK, WaitResponse{Identifier: identifier, Code: code})
}

// ClearCodes drops every stored record. Maintenance/testing only.
func (h *CodeHandler) ClearCodes(w http.ResponseWriter, r *http.Request) {
	cleared := h.store.Clear()
	h.logger.InfoContext(r.Context(), "Cleared stored verification codes", "count", cleared)
	respondWithJSON(w, http.StatusOK, ClearCodesResponse{Cleared: cleared})
}
