/**
 * @description
 * Error taxonomy shared across the service: a sentinel for missing records and
 * a typed error for notification channel failures.
 */
package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced landlord, property, tenant, lease
// or payment does not exist. The API layer maps it to a 404.
var ErrNotFound = errors.New("record not found")

// DeliveryError reports that a notification channel rejected or failed to
// deliver a message. One channel's DeliveryError never blocks the other
// channel or the rest of a sweep.
type DeliveryError struct {
	Channel  string // "email" or "sms"
	Provider string // e.g. "resend", "twilio"
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery via %s failed: %v", e.Channel, e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
