/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for all
 * data access operations required by the property service. Defining an interface
 * decouples the handlers and the reminder sweep from the PostgreSQL implementation,
 * making both easier to test.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Landlord methods
	ListLandlords(ctx context.Context, skip, limit int) ([]domain.Landlord, error)
	GetLandlord(ctx context.Context, landlordID uuid.UUID) (*domain.Landlord, error)
	GetLandlordByEmail(ctx context.Context, email string) (*domain.Landlord, error)
	CreateLandlord(ctx context.Context, req domain.CreateLandlordRequest) (*domain.Landlord, error)
	UpdateLandlord(ctx context.Context, landlordID uuid.UUID, req domain.UpdateLandlordRequest) error
	DeleteLandlord(ctx context.Context, landlordID uuid.UUID) error
	SetLandlordStripeAccount(ctx context.Context, landlordID uuid.UUID, stripeAccountID string) error

	// Property methods
	ListProperties(ctx context.Context, skip, limit int) ([]domain.Property, error)
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error)
	ListPropertiesByLandlord(ctx context.Context, landlordID uuid.UUID) ([]domain.Property, error)
	CreateProperty(ctx context.Context, req domain.CreatePropertyRequest) (*domain.Property, error)
	UpdateProperty(ctx context.Context, propertyID uuid.UUID, req domain.UpdatePropertyRequest) error
	DeleteProperty(ctx context.Context, propertyID uuid.UUID) error

	// Tenant methods
	ListTenants(ctx context.Context, skip, limit int) ([]domain.Tenant, error)
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	CreateTenant(ctx context.Context, req domain.CreateTenantRequest) (*domain.Tenant, error)
	UpdateTenant(ctx context.Context, tenantID uuid.UUID, req domain.UpdateTenantRequest) error
	DeleteTenant(ctx context.Context, tenantID uuid.UUID) error

	// Lease methods
	ListLeases(ctx context.Context, skip, limit int) ([]domain.Lease, error)
	GetLease(ctx context.Context, leaseID uuid.UUID) (*domain.Lease, error)
	GetLeaseByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Lease, error)
	ListActiveLeases(ctx context.Context) ([]domain.Lease, error)
	CreateLease(ctx context.Context, req domain.CreateLeaseRequest) (*domain.Lease, error)
	UpdateLease(ctx context.Context, leaseID uuid.UUID, req domain.UpdateLeaseRequest) error
	MarkLeaseReminded(ctx context.Context, leaseID uuid.UUID, cycleKey string) error

	// Payment methods
	ListPayments(ctx context.Context, skip, limit int) ([]domain.Payment, error)
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
	ListPaymentsByLease(ctx context.Context, leaseID uuid.UUID) ([]domain.Payment, error)
	ListPaymentsByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, req domain.UpdatePaymentRequest) error
	DeletePayment(ctx context.Context, paymentID uuid.UUID) error

	// RecordSettledPayment marks the payment from a settlement event as
	// succeeded and advances the lease's next_payment_date by one month, in a
	// single transaction. The cycle-key change re-arms the lease for the next
	// billing cycle's reminders.
	RecordSettledPayment(ctx context.Context, event domain.PaymentSettledEvent) error
}
