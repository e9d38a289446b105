/**
 * @description
 * Event payloads exchanged over RabbitMQ between the Stripe webhook endpoint
 * and the payment-settlement consumer.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Exchange and routing keys for payment events.
const (
	PaymentEventsExchange    = "payments.events"
	PaymentSettledRoutingKey = "payment.settled"
	PaymentSettledQueue      = "property_service.payment_settled"
)

// PaymentSettledEvent is published when the payment processor confirms that a
// checkout session completed. The consumer records the payment and advances
// the lease's billing cycle.
type PaymentSettledEvent struct {
	EventID         string    `json:"event_id"`
	LeaseID         uuid.UUID `json:"lease_id"`
	PaymentID       uuid.UUID `json:"payment_id"`
	StripePaymentID string    `json:"stripe_payment_id"`
	Amount          int64     `json:"amount"` // in cents
	SettledAt       time.Time `json:"settled_at"`
}

// StripeWebhookEvent is the subset of the processor's webhook payload the
// service inspects.
type StripeWebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			AmountTotal   int64             `json:"amount_total"`
			PaymentStatus string            `json:"payment_status"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}
