// Package handler provides HTTP handlers for the Code Inspector server.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/internal/metrics"
)

const (
	signatureHeader = "X-Hub-Signature-256"
	signaturePrefix = "sha256="

	// GitHub caps webhook payloads at 25 MB.
	maxPayloadBytes = 25 << 20
)

// VerifySignature reports whether signature ("sha256=<hex>") is the
// HMAC-SHA256 of body under secret. An empty secret disables verification.
// Other digests go-github understands (sha1, sha512) are refused.
func VerifySignature(body []byte, secret, signature string) bool {
	if secret == "" {
		return true
	}
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	return github.ValidateSignature(signature, body, []byte(secret)) == nil
}

// knownEvents bounds the event label of the webhook metric; the header is
// read before authentication.
var knownEvents = map[string]bool{
	"pull_request": true,
	"ping":         true,
	"push":         true,
}

func eventLabel(eventType string) string {
	if knownEvents[eventType] {
		return eventType
	}
	return "other"
}

// extractPayload returns the JSON document of a delivery. GitHub sends it
// either as the raw body or, for form-encoded hooks, in the "payload" field.
// A missing Content-Type is treated as JSON.
func extractPayload(contentType string, body []byte) ([]byte, error) {
	mediaType := "application/json"
	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, err
		}
		mediaType = parsed
	}
	// signature and secret are empty: authenticate already checked the raw body.
	return github.ValidatePayloadFromBody(mediaType, bytes.NewReader(body), "", nil)
}

// WebhookHandler processes incoming webhooks from GitHub.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given configuration and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type reviewResponse struct {
	Status       string `json:"status"`
	PRNumber     int    `json:"pr_number"`
	ReviewStatus string `json:"review_status"`
	IssuesFound  int    `json:"issues_found"`
}

// Handle authenticates, classifies and, for opened or synchronized pull
// requests, reviews a GitHub webhook delivery before responding.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	eventType := github.WebHookType(r)
	deliveryID := github.DeliveryID(r)
	label := eventLabel(eventType)
	log := h.logger.With("event", eventType, "delivery", deliveryID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		log.Error("failed to read webhook body", "error", err)
		h.reject(w, label, metrics.ResultBadRequest, http.StatusBadRequest, "Could not read request body")
		return
	}

	if !h.authenticate(log, body, r.Header.Get(signatureHeader)) {
		h.reject(w, label, metrics.ResultUnauthorized, http.StatusUnauthorized, "Invalid signature")
		return
	}

	payload, err := extractPayload(r.Header.Get("Content-Type"), body)
	if err != nil {
		log.Warn("could not extract webhook payload", "error", err)
		h.reject(w, label, metrics.ResultBadRequest, http.StatusBadRequest, "Unsupported payload encoding")
		return
	}

	event, err := core.ClassifyEvent(eventType, deliveryID, payload)
	if err != nil {
		log.Warn("could not classify webhook", "error", err)
		h.reject(w, label, metrics.ResultBadRequest, http.StatusBadRequest, "Invalid event payload")
		return
	}

	if !event.Kind.Triggers() {
		log.Debug("ignoring webhook event", "action", event.Action)
		metrics.WebhookEvents.WithLabelValues(label, metrics.ResultIgnored).Inc()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	log.Info("dispatching review", "kind", event.Kind, "repo", event.RepoFullName, "pr", event.PRNumber)
	outcome, err := h.dispatcher.Dispatch(r.Context(), event)
	if err != nil {
		status, message := errorResponse(err)
		log.Error("review failed", "repo", event.RepoFullName, "pr", event.PRNumber, "error", err)
		h.reject(w, label, metrics.ResultFailed, status, message)
		return
	}

	metrics.WebhookEvents.WithLabelValues(label, metrics.ResultReviewed).Inc()
	writeJSON(w, http.StatusOK, reviewResponse{
		Status:       "success",
		PRNumber:     outcome.PRNumber,
		ReviewStatus: outcome.Status,
		IssuesFound:  outcome.IssuesFound,
	})
}

// authenticate applies the signature policy. Without a configured secret
// every request passes; with one, a missing header passes only when unsigned
// deliveries are explicitly allowed.
func (h *WebhookHandler) authenticate(log *slog.Logger, body []byte, signature string) bool {
	secret := h.cfg.GitHub.WebhookSecret
	if secret == "" {
		return true
	}
	if signature == "" {
		if h.cfg.GitHub.AllowUnsigned {
			log.Warn("accepting unsigned webhook delivery")
			return true
		}
		log.Warn("rejecting unsigned webhook delivery")
		return false
	}
	if !VerifySignature(body, secret, signature) {
		log.Warn("invalid webhook payload signature")
		return false
	}
	return true
}

func (h *WebhookHandler) reject(w http.ResponseWriter, label, result string, status int, message string) {
	metrics.WebhookEvents.WithLabelValues(label, result).Inc()
	writeJSON(w, status, map[string]string{"error": message})
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrConfiguration):
		return http.StatusInternalServerError, "GitHub token not configured"
	case errors.Is(err, core.ErrInvalidEvent):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
