package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/dedupe"
	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/whatsapp"
)

// MessageSender delivers the reply back to the messaging platform.
type MessageSender interface {
	SendTextMessage(ctx context.Context, phoneNumberID, to, body string) error
}

// ReplyGenerator turns an inbound customer message into a response string.
type ReplyGenerator interface {
	Reply(ctx context.Context, message, customerName, correlationID string) string
}

// Ledger records customer contact history. A nil Ledger means the
// spreadsheet is not configured and recording is skipped.
type Ledger interface {
	RecordInteraction(ctx context.Context, name, phone, email, question string) error
}

// ServiceStatus carries the dependency flags reported by the health endpoint.
type ServiceStatus struct {
	WhatsAppToken  bool
	InferenceToken bool
}

type Handler struct {
	sender       MessageSender
	replies      ReplyGenerator
	ledger       Ledger
	verifyToken  string
	businessName string
	status       ServiceStatus
	logger       *slog.Logger
	seen         *dedupe.Store
}

func NewHandler(sender MessageSender, replies ReplyGenerator, ledger Ledger, verifyToken, businessName string, status ServiceStatus, logger *slog.Logger) *Handler {
	// Remember message IDs for an hour; the platform redelivers webhooks it
	// considers unacknowledged well within that window.
	seen := dedupe.NewStore(1 * time.Hour)

	return &Handler{
		sender:       sender,
		replies:      replies,
		ledger:       ledger,
		verifyToken:  verifyToken,
		businessName: businessName,
		status:       status,
		logger:       logger,
		seen:         seen,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /health", h.handleHealthCheck)
	mux.HandleFunc("GET /webhook", h.handleVerification)
	mux.HandleFunc("POST /webhook", h.handleWebhook)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": h.businessName + " WhatsApp AI Agent",
		"status":  "active",
		"endpoints": map[string]string{
			"webhook": "/webhook",
			"health":  "/health",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": map[string]bool{
			"whatsapp_token":    h.status.WhatsAppToken,
			"huggingface_token": h.status.InferenceToken,
			"google_sheets":     h.ledger != nil,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleVerification answers the subscription handshake: echo the challenge
// back only when the shared verify token matches.
func (h *Handler) handleVerification(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		h.logger.Error("Webhook verification failed", "mode", mode)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	h.logger.Info("Webhook verified successfully")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("Failed to decode webhook payload", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	msg, value, ok := inboundTextMessage(payload)
	if !ok {
		// Status updates, media messages and anything else we do not handle
		// still get acknowledged so the platform stops redelivering them.
		writeStatus(w, http.StatusOK, "ignored")
		return
	}

	if h.seen.Seen(msg.ID) {
		h.logger.Info("Duplicate message delivery", "message_id", msg.ID)
		writeStatus(w, http.StatusOK, "duplicate")
		return
	}

	correlationID := uuid.NewString()
	customerName := displayName(value.Contacts, msg.From)
	messageText := msg.Text.Body

	h.logger.Info("Processing inbound message",
		"correlation_id", correlationID,
		"from", msg.From,
		"name", customerName)

	email := extractEmail(messageText)

	if h.ledger != nil {
		if err := h.ledger.RecordInteraction(r.Context(), customerName, msg.From, email, messageText); err != nil {
			h.logger.Error("Failed to record customer interaction", "error", err, "correlation_id", correlationID)
		}
	}

	replyText := h.replies.Reply(r.Context(), messageText, customerName, correlationID)

	if err := h.sender.SendTextMessage(r.Context(), value.Metadata.PhoneNumberID, msg.From, replyText); err != nil {
		h.logger.Error("Failed to send reply", "error", err, "correlation_id", correlationID)
	}

	writeStatus(w, http.StatusOK, "success")
}

// inboundTextMessage digs the first text message out of a notification
// payload, along with the change value it arrived in.
func inboundTextMessage(payload whatsapp.WebhookPayload) (whatsapp.Message, whatsapp.ChangeValue, bool) {
	if payload.Object != "whatsapp_business_account" {
		return whatsapp.Message{}, whatsapp.ChangeValue{}, false
	}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return whatsapp.Message{}, whatsapp.ChangeValue{}, false
	}

	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return whatsapp.Message{}, whatsapp.ChangeValue{}, false
	}

	msg := value.Messages[0]
	if msg.Type != "text" || msg.Text == nil {
		return whatsapp.Message{}, whatsapp.ChangeValue{}, false
	}

	return msg, value, true
}

// displayName picks the contact profile name, falling back to the sender's
// phone number when the profile has none and to a generic label when the
// payload carries no contacts at all.
func displayName(contacts []whatsapp.Contact, from string) string {
	if len(contacts) == 0 {
		return "Customer"
	}
	if name := contacts[0].Profile.Name; name != "" {
		return name
	}
	return from
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
