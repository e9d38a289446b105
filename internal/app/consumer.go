/**
 * @description
 * This file contains the event handler that processes payment settlement
 * messages from RabbitMQ. Settlements recorded here advance the lease's
 * billing cycle, which re-arms the reminder sweep for the next period.
 */
package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/domain"
)

// SettlementStore defines the persistence operation the consumer needs.
type SettlementStore interface {
	RecordSettledPayment(ctx context.Context, event domain.PaymentSettledEvent) error
}

// PaymentEventHandler handles the processing of payment settlement events.
type PaymentEventHandler struct {
	store  SettlementStore
	logger *slog.Logger
}

// NewPaymentEventHandler creates a new instance of PaymentEventHandler.
func NewPaymentEventHandler(store SettlementStore, logger *slog.Logger) *PaymentEventHandler {
	return &PaymentEventHandler{store: store, logger: logger}
}

// HandlePaymentSettledEvent processes one payment.settled message. The return
// value follows the consumer's ack contract: true acknowledges the message,
// false rejects it for requeue.
func (h *PaymentEventHandler) HandlePaymentSettledEvent(body []byte) bool {
	var event domain.PaymentSettledEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("malformed payment.settled event, acking", "error", err)
		return true
	}

	if event.LeaseID == uuid.Nil {
		h.logger.Error("payment.settled event missing lease id, acking", "event_id", event.EventID)
		return true
	}

	h.logger.Info("processing payment.settled event",
		"event_id", event.EventID, "lease_id", event.LeaseID, "amount", event.Amount)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.store.RecordSettledPayment(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.logger.Error("payment.settled event references unknown lease, acking to avoid requeue loop",
				"event_id", event.EventID, "lease_id", event.LeaseID)
			return true
		}
		h.logger.Error("failed to record settled payment, requeueing",
			"event_id", event.EventID, "error", err)
		return false
	}

	h.logger.Info("payment settled and lease cycle advanced",
		"event_id", event.EventID, "lease_id", event.LeaseID)
	return true
}
