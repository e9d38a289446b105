/**
 * @description
 * This file contains the HTTP handler for processing incoming webhooks from
 * the payment processor. It is the entry point for payment settlement.
 *
 * Key features:
 * - Security: validates the HMAC signature of incoming webhooks.
 * - Parsing: decodes the JSON payload into strongly-typed structs.
 * - Routing: only completed, paid checkout sessions produce an internal event.
 * - Event publishing: settlements are published to RabbitMQ for decoupled
 *   processing by the settlement consumer.
 */
package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/domain"
	"github.com/williamphan99/resera-template/pkg/rabbitmq"
)

// webhookTolerance bounds how stale a signed timestamp may be.
const webhookTolerance = 5 * time.Minute

// WebhookHandler processes incoming webhooks from the payment processor.
type WebhookHandler struct {
	producer rabbitmq.Publisher
	secret   string
	logger   *slog.Logger

	// processedEvents short-circuits same-process redeliveries only; the
	// durable guard is the succeeded payment row checked during settlement.
	mu              sync.Mutex
	processedEvents map[string]time.Time
}

// NewWebhookHandler creates a new handler for the webhook endpoint.
func NewWebhookHandler(producer rabbitmq.Publisher, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		producer:        producer,
		secret:          secret,
		logger:          logger,
		processedEvents: make(map[string]time.Time),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Cannot read request body", http.StatusBadRequest)
		return
	}

	if !h.isValidSignature(r.Header.Get("Stripe-Signature"), body, time.Now()) {
		h.logger.Error("invalid webhook signature", "remote_addr", r.RemoteAddr)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event domain.StripeWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// The processor retries deliveries; a replayed event ID is acknowledged
	// without publishing a second settlement.
	if h.alreadyProcessed(event.ID) {
		h.logger.Info("duplicate webhook event acknowledged", "event_id", event.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if event.Type != "checkout.session.completed" || event.Data.Object.PaymentStatus != "paid" {
		h.logger.Info("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	leaseID, err := uuid.Parse(event.Data.Object.Metadata["lease_id"])
	if err != nil {
		h.logger.Error("webhook session missing lease_id metadata", "event_id", event.ID)
		http.Error(w, "Missing lease metadata", http.StatusBadRequest)
		return
	}
	paymentID, err := uuid.Parse(event.Data.Object.Metadata["payment_id"])
	if err != nil {
		h.logger.Error("webhook session missing payment_id metadata", "event_id", event.ID)
		http.Error(w, "Missing payment metadata", http.StatusBadRequest)
		return
	}

	settlement := domain.PaymentSettledEvent{
		EventID:         event.ID,
		LeaseID:         leaseID,
		PaymentID:       paymentID,
		StripePaymentID: event.Data.Object.ID,
		Amount:          event.Data.Object.AmountTotal,
		SettledAt:       time.Now().UTC(),
	}

	if err := h.producer.Publish(r.Context(), domain.PaymentEventsExchange, domain.PaymentSettledRoutingKey, settlement); err != nil {
		h.logger.Error("failed to publish payment.settled event", "event_id", event.ID, "error", err)
		http.Error(w, "Failed to process event", http.StatusInternalServerError)
		return
	}

	h.markProcessed(event.ID)
	h.logger.Info("payment.settled event published",
		"event_id", event.ID, "lease_id", leaseID, "amount", settlement.Amount)
	w.WriteHeader(http.StatusAccepted)
}

// isValidSignature checks the processor's signature header, which carries a
// unix timestamp and an HMAC-SHA256 of "<timestamp>.<body>".
func (h *WebhookHandler) isValidSignature(header string, body []byte, now time.Time) bool {
	if h.secret == "" {
		// No secret configured: accept, for local development against the CLI.
		return true
	}
	if header == "" {
		return false
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}

func (h *WebhookHandler) alreadyProcessed(eventID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, seen := h.processedEvents[eventID]
	return seen
}

func (h *WebhookHandler) markProcessed(eventID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Drop entries older than a day so the map does not grow unbounded.
	cutoff := time.Now().Add(-24 * time.Hour)
	for id, at := range h.processedEvents {
		if at.Before(cutoff) {
			delete(h.processedEvents, id)
		}
	}
	h.processedEvents[eventID] = time.Now()
}
