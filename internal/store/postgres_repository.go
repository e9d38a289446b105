/**
 * @description
 * This file implements the data access layer for the property service.
 * It contains all the SQL queries and logic for interacting with the database.
 */
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/williamphan99/resera-template/internal/domain"
)

// PostgresRepository is the PostgreSQL implementation of the Repository interface.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new repository backed by the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const landlordColumns = "id, name, email, phone, stripe_account_id, created_at, updated_at"

func scanLandlord(row pgx.Row) (*domain.Landlord, error) {
	var l domain.Landlord
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.StripeAccountID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// ListLandlords returns a page of landlords ordered by creation time.
func (r *PostgresRepository) ListLandlords(ctx context.Context, skip, limit int) ([]domain.Landlord, error) {
	query := fmt.Sprintf(`SELECT %s FROM landlords ORDER BY created_at OFFSET $1 LIMIT $2`, landlordColumns)
	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	landlords := []domain.Landlord{}
	for rows.Next() {
		var l domain.Landlord
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.StripeAccountID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		landlords = append(landlords, l)
	}
	return landlords, rows.Err()
}

// GetLandlord retrieves a single landlord by ID.
func (r *PostgresRepository) GetLandlord(ctx context.Context, landlordID uuid.UUID) (*domain.Landlord, error) {
	query := fmt.Sprintf(`SELECT %s FROM landlords WHERE id = $1`, landlordColumns)
	return scanLandlord(r.db.QueryRow(ctx, query, landlordID))
}

// GetLandlordByEmail retrieves a single landlord by email address.
func (r *PostgresRepository) GetLandlordByEmail(ctx context.Context, email string) (*domain.Landlord, error) {
	query := fmt.Sprintf(`SELECT %s FROM landlords WHERE email = $1`, landlordColumns)
	return scanLandlord(r.db.QueryRow(ctx, query, email))
}

// CreateLandlord inserts a new landlord and returns the created row.
func (r *PostgresRepository) CreateLandlord(ctx context.Context, req domain.CreateLandlordRequest) (*domain.Landlord, error) {
	query := fmt.Sprintf(`
        INSERT INTO landlords (name, email, phone)
        VALUES ($1, $2, $3)
        RETURNING %s`, landlordColumns)
	return scanLandlord(r.db.QueryRow(ctx, query, req.Name, req.Email, req.Phone))
}

// UpdateLandlord applies the non-nil fields of the request.
func (r *PostgresRepository) UpdateLandlord(ctx context.Context, landlordID uuid.UUID, req domain.UpdateLandlordRequest) error {
	query := `
        UPDATE landlords
        SET name = COALESCE($2, name),
            email = COALESCE($3, email),
            phone = COALESCE($4, phone),
            updated_at = NOW()
        WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, landlordID, req.Name, req.Email, req.Phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLandlord removes a landlord.
func (r *PostgresRepository) DeleteLandlord(ctx context.Context, landlordID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM landlords WHERE id = $1`, landlordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetLandlordStripeAccount stores the connected Stripe account ID for a landlord.
func (r *PostgresRepository) SetLandlordStripeAccount(ctx context.Context, landlordID uuid.UUID, stripeAccountID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE landlords SET stripe_account_id = $2, updated_at = NOW() WHERE id = $1`,
		landlordID, stripeAccountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const propertyColumns = "id, landlord_id, address, city, state, postal_code, rent_amount, created_at, updated_at"

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	err := row.Scan(&p.ID, &p.LandlordID, &p.Address, &p.City, &p.State, &p.PostalCode, &p.RentAmount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) queryProperties(ctx context.Context, query string, args ...interface{}) ([]domain.Property, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []domain.Property{}
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.LandlordID, &p.Address, &p.City, &p.State, &p.PostalCode, &p.RentAmount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// ListProperties returns a page of properties.
func (r *PostgresRepository) ListProperties(ctx context.Context, skip, limit int) ([]domain.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties ORDER BY created_at OFFSET $1 LIMIT $2`, propertyColumns)
	return r.queryProperties(ctx, query, skip, limit)
}

// GetProperty retrieves a single property by ID.
func (r *PostgresRepository) GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = $1`, propertyColumns)
	return scanProperty(r.db.QueryRow(ctx, query, propertyID))
}

// ListPropertiesByLandlord returns all properties owned by a landlord.
func (r *PostgresRepository) ListPropertiesByLandlord(ctx context.Context, landlordID uuid.UUID) ([]domain.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE landlord_id = $1 ORDER BY created_at`, propertyColumns)
	return r.queryProperties(ctx, query, landlordID)
}

// CreateProperty inserts a new property.
func (r *PostgresRepository) CreateProperty(ctx context.Context, req domain.CreatePropertyRequest) (*domain.Property, error) {
	query := fmt.Sprintf(`
        INSERT INTO properties (landlord_id, address, city, state, postal_code, rent_amount)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s`, propertyColumns)
	return scanProperty(r.db.QueryRow(ctx, query, req.LandlordID, req.Address, req.City, req.State, req.PostalCode, req.RentAmount))
}

// UpdateProperty applies the non-nil fields of the request.
func (r *PostgresRepository) UpdateProperty(ctx context.Context, propertyID uuid.UUID, req domain.UpdatePropertyRequest) error {
	query := `
        UPDATE properties
        SET address = COALESCE($2, address),
            city = COALESCE($3, city),
            state = COALESCE($4, state),
            postal_code = COALESCE($5, postal_code),
            rent_amount = COALESCE($6, rent_amount),
            updated_at = NOW()
        WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, propertyID, req.Address, req.City, req.State, req.PostalCode, req.RentAmount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteProperty removes a property.
func (r *PostgresRepository) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, propertyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const tenantColumns = "id, property_id, name, email, phone, created_at, updated_at"

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(&t.ID, &t.PropertyID, &t.Name, &t.Email, &t.Phone, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListTenants returns a page of tenants.
func (r *PostgresRepository) ListTenants(ctx context.Context, skip, limit int) ([]domain.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants ORDER BY created_at OFFSET $1 LIMIT $2`, tenantColumns)
	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := []domain.Tenant{}
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.PropertyID, &t.Name, &t.Email, &t.Phone, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// GetTenant retrieves a single tenant by ID.
func (r *PostgresRepository) GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE id = $1`, tenantColumns)
	return scanTenant(r.db.QueryRow(ctx, query, tenantID))
}

// CreateTenant inserts a new tenant for a property.
func (r *PostgresRepository) CreateTenant(ctx context.Context, req domain.CreateTenantRequest) (*domain.Tenant, error) {
	query := fmt.Sprintf(`
        INSERT INTO tenants (property_id, name, email, phone)
        VALUES ($1, $2, $3, $4)
        RETURNING %s`, tenantColumns)
	return scanTenant(r.db.QueryRow(ctx, query, req.PropertyID, req.Name, req.Email, req.Phone))
}

// UpdateTenant applies the non-nil fields of the request.
func (r *PostgresRepository) UpdateTenant(ctx context.Context, tenantID uuid.UUID, req domain.UpdateTenantRequest) error {
	query := `
        UPDATE tenants
        SET name = COALESCE($2, name),
            email = COALESCE($3, email),
            phone = COALESCE($4, phone),
            updated_at = NOW()
        WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, tenantID, req.Name, req.Email, req.Phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteTenant removes a tenant.
func (r *PostgresRepository) DeleteTenant(ctx context.Context, tenantID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const leaseColumns = "id, property_id, tenant_id, start_date, end_date, monthly_rent, next_payment_date, payment_link_url, reminded_cycle_key, status, created_at, updated_at"

func scanLease(row pgx.Row) (*domain.Lease, error) {
	var l domain.Lease
	err := row.Scan(&l.ID, &l.PropertyID, &l.TenantID, &l.StartDate, &l.EndDate, &l.MonthlyRent,
		&l.NextPaymentDate, &l.PaymentLinkURL, &l.RemindedCycleKey, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PostgresRepository) queryLeases(ctx context.Context, query string, args ...interface{}) ([]domain.Lease, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leases := []domain.Lease{}
	for rows.Next() {
		var l domain.Lease
		if err := rows.Scan(&l.ID, &l.PropertyID, &l.TenantID, &l.StartDate, &l.EndDate, &l.MonthlyRent,
			&l.NextPaymentDate, &l.PaymentLinkURL, &l.RemindedCycleKey, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

// ListLeases returns a page of leases.
func (r *PostgresRepository) ListLeases(ctx context.Context, skip, limit int) ([]domain.Lease, error) {
	query := fmt.Sprintf(`SELECT %s FROM leases ORDER BY created_at OFFSET $1 LIMIT $2`, leaseColumns)
	return r.queryLeases(ctx, query, skip, limit)
}

// GetLease retrieves a single lease by ID.
func (r *PostgresRepository) GetLease(ctx context.Context, leaseID uuid.UUID) (*domain.Lease, error) {
	query := fmt.Sprintf(`SELECT %s FROM leases WHERE id = $1`, leaseColumns)
	return scanLease(r.db.QueryRow(ctx, query, leaseID))
}

// GetLeaseByTenant retrieves the lease for a tenant.
func (r *PostgresRepository) GetLeaseByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Lease, error) {
	query := fmt.Sprintf(`SELECT %s FROM leases WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT 1`, leaseColumns)
	return scanLease(r.db.QueryRow(ctx, query, tenantID))
}

// ListActiveLeases returns every lease the reminder sweep must evaluate.
func (r *PostgresRepository) ListActiveLeases(ctx context.Context) ([]domain.Lease, error) {
	query := fmt.Sprintf(`SELECT %s FROM leases WHERE status = $1 ORDER BY next_payment_date`, leaseColumns)
	return r.queryLeases(ctx, query, domain.LeaseStatusActive)
}

// CreateLease inserts a new active lease.
func (r *PostgresRepository) CreateLease(ctx context.Context, req domain.CreateLeaseRequest) (*domain.Lease, error) {
	query := fmt.Sprintf(`
        INSERT INTO leases (property_id, tenant_id, start_date, end_date, monthly_rent, next_payment_date, payment_link_url, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING %s`, leaseColumns)
	return scanLease(r.db.QueryRow(ctx, query,
		req.PropertyID, req.TenantID, req.StartDate, req.EndDate, req.MonthlyRent,
		req.NextPaymentDate, req.PaymentLinkURL, domain.LeaseStatusActive))
}

// UpdateLease applies the non-nil fields of the request.
func (r *PostgresRepository) UpdateLease(ctx context.Context, leaseID uuid.UUID, req domain.UpdateLeaseRequest) error {
	query := `
        UPDATE leases
        SET end_date = COALESCE($2, end_date),
            monthly_rent = COALESCE($3, monthly_rent),
            next_payment_date = COALESCE($4, next_payment_date),
            payment_link_url = COALESCE($5, payment_link_url),
            status = COALESCE($6, status),
            updated_at = NOW()
        WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, leaseID, req.EndDate, req.MonthlyRent, req.NextPaymentDate, req.PaymentLinkURL, req.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkLeaseReminded persists the cycle key of the notice that was just sent,
// which makes the lease ineligible for further dispatches this cycle.
func (r *PostgresRepository) MarkLeaseReminded(ctx context.Context, leaseID uuid.UUID, cycleKey string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE leases SET reminded_cycle_key = $2, updated_at = NOW() WHERE id = $1`,
		leaseID, cycleKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const paymentColumns = "id, lease_id, amount, status, paid_at, stripe_payment_id, created_at"

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.LeaseID, &p.Amount, &p.Status, &p.PaidAt, &p.StripePaymentID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) queryPayments(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.LeaseID, &p.Amount, &p.Status, &p.PaidAt, &p.StripePaymentID, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListPayments returns a page of payments.
func (r *PostgresRepository) ListPayments(ctx context.Context, skip, limit int) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments ORDER BY created_at DESC OFFSET $1 LIMIT $2`, paymentColumns)
	return r.queryPayments(ctx, query, skip, limit)
}

// GetPayment retrieves a single payment by ID.
func (r *PostgresRepository) GetPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	return scanPayment(r.db.QueryRow(ctx, query, paymentID))
}

// ListPaymentsByLease returns all payments recorded against a lease.
func (r *PostgresRepository) ListPaymentsByLease(ctx context.Context, leaseID uuid.UUID) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE lease_id = $1 ORDER BY created_at DESC`, paymentColumns)
	return r.queryPayments(ctx, query, leaseID)
}

// ListPaymentsByProperty returns all payments for leases of a property.
func (r *PostgresRepository) ListPaymentsByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Payment, error) {
	query := `
        SELECT p.id, p.lease_id, p.amount, p.status, p.paid_at, p.stripe_payment_id, p.created_at
        FROM payments p
        JOIN leases l ON l.id = p.lease_id
        WHERE l.property_id = $1
        ORDER BY p.created_at DESC`
	return r.queryPayments(ctx, query, propertyID)
}

// CreatePayment records a payment. A payment recorded as succeeded advances the
// lease's next_payment_date by one month in the same transaction, which changes
// the lease's cycle key and re-arms it for the next cycle's reminders.
func (r *PostgresRepository) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	status := req.Status
	if status == "" {
		status = domain.PaymentStatusPending
	}

	query := fmt.Sprintf(`
        INSERT INTO payments (lease_id, amount, status, paid_at)
        VALUES ($1, $2, $3, CASE WHEN $3 = 'succeeded' THEN NOW() ELSE NULL END)
        RETURNING %s`, paymentColumns)
	payment, err := scanPayment(tx.QueryRow(ctx, query, req.LeaseID, req.Amount, status))
	if err != nil {
		return nil, err
	}

	if status == domain.PaymentStatusSucceeded {
		if err := advanceLeaseCycle(ctx, tx, req.LeaseID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePayment applies the non-nil fields of the request.
func (r *PostgresRepository) UpdatePayment(ctx context.Context, paymentID uuid.UUID, req domain.UpdatePaymentRequest) error {
	query := `
        UPDATE payments
        SET status = COALESCE($2, status),
            stripe_payment_id = COALESCE($3, stripe_payment_id),
            paid_at = CASE WHEN $2 = 'succeeded' THEN NOW() ELSE paid_at END
        WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, paymentID, req.Status, req.StripePaymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeletePayment removes a payment.
func (r *PostgresRepository) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordSettledPayment applies a settlement event from the payment processor.
// The payment row is marked succeeded (or inserted if the checkout was created
// outside this service) and the lease cycle advances, all in one transaction.
// The payment row doubles as the durable replay guard: if it is already
// succeeded for the same processor payment, the event was applied before and
// the lease cycle must not advance again.
func (r *PostgresRepository) RecordSettledPayment(ctx context.Context, event domain.PaymentSettledEvent) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status string
	var stripePaymentID *string
	err = tx.QueryRow(ctx, `
        SELECT status, stripe_payment_id
        FROM payments
        WHERE id = $1
        FOR UPDATE`, event.PaymentID).Scan(&status, &stripePaymentID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
            INSERT INTO payments (id, lease_id, amount, status, paid_at, stripe_payment_id)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			event.PaymentID, event.LeaseID, event.Amount, domain.PaymentStatusSucceeded, event.SettledAt, event.StripePaymentID)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	case settlementApplied(status, stripePaymentID, event):
		return tx.Commit(ctx)
	default:
		_, err = tx.Exec(ctx, `
            UPDATE payments
            SET status = $2, paid_at = $3, stripe_payment_id = $4
            WHERE id = $1`,
			event.PaymentID, domain.PaymentStatusSucceeded, event.SettledAt, event.StripePaymentID)
		if err != nil {
			return err
		}
	}

	if err := advanceLeaseCycle(ctx, tx, event.LeaseID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// settlementApplied reports whether a payment row already reflects the given
// settlement event. True only when the row is succeeded for the same
// processor payment, so a redelivered event becomes a no-op.
func settlementApplied(status string, stripePaymentID *string, event domain.PaymentSettledEvent) bool {
	if status != domain.PaymentStatusSucceeded {
		return false
	}
	return stripePaymentID != nil && *stripePaymentID == event.StripePaymentID
}

// advanceLeaseCycle moves the lease's due date to the next billing period.
func advanceLeaseCycle(ctx context.Context, tx pgx.Tx, leaseID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
        UPDATE leases
        SET next_payment_date = next_payment_date + INTERVAL '1 month',
            updated_at = NOW()
        WHERE id = $1`, leaseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
