/**
 * @description
 * This file defines the core domain models for the property service.
 * These structs represent the main entities and data transfer objects (DTOs)
 * used throughout the service's business logic, database interactions, and API layers.
 *
 * @notes
 * - Monetary amounts are stored as `int64` in the smallest currency unit (cents)
 *   to avoid floating-point inaccuracies.
 * - Due dates are date-valued; time-of-day never participates in scheduling math.
 */

package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lease statuses.
const (
	LeaseStatusActive     = "active"
	LeaseStatusTerminated = "terminated"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Landlord represents a property owner. Maps to the `landlords` table.
type Landlord struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	StripeAccountID *string   `json:"stripe_account_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Property represents a rental property owned by a landlord.
type Property struct {
	ID         uuid.UUID `json:"id"`
	LandlordID uuid.UUID `json:"landlord_id"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	RentAmount int64     `json:"rent_amount"` // in cents
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tenant represents an occupant of a property.
type Tenant struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Lease is the agreement between a tenant and a property. It carries the
// recurring payment due date the reminder sweep evaluates, and the durable
// reminder state for the current billing cycle.
type Lease struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"property_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MonthlyRent     int64     `json:"monthly_rent"` // in cents
	NextPaymentDate time.Time `json:"next_payment_date"`
	PaymentLinkURL  string    `json:"payment_link_url"`
	// RemindedCycleKey records which billing cycle already received a
	// reminder or overdue notice. Nil means no notice has been sent for the
	// current cycle. It survives restarts because it lives on the row.
	RemindedCycleKey *string   `json:"reminded_cycle_key,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CycleKey identifies the lease's current billing cycle. The key changes
// whenever next_payment_date advances, which re-arms the lease for the next
// cycle's notifications.
func (l Lease) CycleKey() string {
	return fmt.Sprintf("%s:%s", l.ID, l.NextPaymentDate.Format("2006-01-02"))
}

// Reminded reports whether a notice was already dispatched for the current cycle.
func (l Lease) Reminded() bool {
	return l.RemindedCycleKey != nil && *l.RemindedCycleKey == l.CycleKey()
}

// Payment represents a single rent payment against a lease.
type Payment struct {
	ID              uuid.UUID  `json:"id"`
	LeaseID         uuid.UUID  `json:"lease_id"`
	Amount          int64      `json:"amount"` // in cents
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	StripePaymentID *string    `json:"stripe_payment_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PaymentNotice carries everything a notification channel needs to render a
// reminder or overdue message for one lease.
type PaymentNotice struct {
	TenantName      string
	TenantEmail     string
	TenantPhone     string
	PropertyAddress string
	AmountDue       int64 // in cents
	DueDate         time.Time
	PaymentLinkURL  string
}

// CreateLandlordRequest is the DTO for creating a landlord.
type CreateLandlordRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateLandlordRequest is the DTO for updating a landlord. Nil fields are left unchanged.
type UpdateLandlordRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// CreatePropertyRequest is the DTO for creating a property.
type CreatePropertyRequest struct {
	LandlordID uuid.UUID `json:"landlord_id"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	RentAmount int64     `json:"rent_amount"`
}

// UpdatePropertyRequest is the DTO for updating a property.
type UpdatePropertyRequest struct {
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	RentAmount *int64  `json:"rent_amount"`
}

// CreateTenantRequest is the DTO for onboarding a tenant to a property.
type CreateTenantRequest struct {
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
}

// UpdateTenantRequest is the DTO for updating a tenant.
type UpdateTenantRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// CreateLeaseRequest is the DTO for creating a lease.
type CreateLeaseRequest struct {
	PropertyID      uuid.UUID `json:"property_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MonthlyRent     int64     `json:"monthly_rent"`
	NextPaymentDate time.Time `json:"next_payment_date"`
	PaymentLinkURL  string    `json:"payment_link_url"`
}

// UpdateLeaseRequest is the DTO for updating a lease.
type UpdateLeaseRequest struct {
	EndDate         *time.Time `json:"end_date"`
	MonthlyRent     *int64     `json:"monthly_rent"`
	NextPaymentDate *time.Time `json:"next_payment_date"`
	PaymentLinkURL  *string    `json:"payment_link_url"`
	Status          *string    `json:"status"`
}

// CreatePaymentRequest is the DTO for recording a payment.
type CreatePaymentRequest struct {
	LeaseID uuid.UUID `json:"lease_id"`
	Amount  int64     `json:"amount"`
	Status  string    `json:"status"`
}

// UpdatePaymentRequest is the DTO for updating a payment's status.
type UpdatePaymentRequest struct {
	Status          *string `json:"status"`
	StripePaymentID *string `json:"stripe_payment_id"`
}

// EmailResponse is returned by the email endpoints.
type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EmailID string `json:"email_id,omitempty"`
}

// MessageResponse is returned by the SMS endpoints.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
