/**
 * @description
 * The payment reminder sweep. One run walks every active lease, classifies it
 * by due-date proximity, and dispatches at most one notice per lease per
 * billing cycle across the email and SMS channels.
 *
 * Key properties:
 * - Classification: overdue when the due date has passed, due-soon inside the
 *   configured reminder window (boundaries inclusive), otherwise no action.
 * - Idempotence: the lease's persisted cycle key records which cycle already
 *   received a notice; advancing next_payment_date changes the key and
 *   re-arms the lease.
 * - Fault isolation: one lease's failure never aborts the sweep, and one
 *   channel's failure never blocks the other channel.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/domain"
)

// LeaseSource defines the persistence operations the sweep needs.
type LeaseSource interface {
	ListActiveLeases(ctx context.Context) ([]domain.Lease, error)
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error)
	MarkLeaseReminded(ctx context.Context, leaseID uuid.UUID, cycleKey string) error
}

// EmailSender is the email notification channel.
type EmailSender interface {
	SendReminderEmail(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendOverdueEmail(ctx context.Context, notice domain.PaymentNotice) (string, error)
}

// SMSSender is the SMS notification channel.
type SMSSender interface {
	SendReminderSMS(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendOverdueSMS(ctx context.Context, notice domain.PaymentNotice) (string, error)
}

// Lease classifications for one sweep.
const (
	ClassificationNone    = "none"
	ClassificationDueSoon = "due_soon"
	ClassificationOverdue = "overdue"
)

// LeaseOutcome is the per-lease result value of a sweep. Failures are carried
// here instead of aborting the loop.
type LeaseOutcome struct {
	LeaseID        uuid.UUID
	Classification string
	DaysUntilDue   int
	Skipped        bool
	EmailErr       error
	SMSErr         error
	Marked         bool
	Err            error
}

// SweepSummary aggregates the outcomes of one sweep.
type SweepSummary struct {
	Evaluated  int
	DueSoon    int
	Overdue    int
	Dispatched int
	Skipped    int
	Failed     int
	Outcomes   []LeaseOutcome
}

// Sweeper evaluates leases and dispatches payment notices.
type Sweeper struct {
	leases LeaseSource
	email  EmailSender
	sms    SMSSender
	window int
	now    func() time.Time
	logger *slog.Logger

	// mu serializes sweeps so a manual trigger cannot overlap a cron run.
	mu sync.Mutex
}

// NewSweeper creates a sweeper. The reminder window is the number of days
// before the due date during which a due-soon notice is sent; a negative
// window is a configuration error.
func NewSweeper(leases LeaseSource, email EmailSender, sms SMSSender, windowDays int, logger *slog.Logger) (*Sweeper, error) {
	if leases == nil {
		return nil, fmt.Errorf("lease source is required")
	}
	if windowDays < 0 {
		return nil, fmt.Errorf("reminder window must not be negative, got %d", windowDays)
	}
	return &Sweeper{
		leases: leases,
		email:  email,
		sms:    sms,
		window: windowDays,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Run executes one sweep over all active leases. A cancelled context stops the
// sweep between leases; the lease in flight finishes so its side effects are
// never left half-applied.
func (s *Sweeper) Run(ctx context.Context) (SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary SweepSummary

	leases, err := s.leases.ListActiveLeases(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list active leases: %w", err)
	}

	today := s.now()
	s.logger.Info("reminder sweep started", "leases", len(leases), "window_days", s.window)

	for _, lease := range leases {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder sweep stopped early", "evaluated", summary.Evaluated)
			s.logSummary(summary)
			return summary, ctx.Err()
		default:
		}

		outcome := s.evaluateLease(ctx, lease, today)
		summary.Evaluated++
		switch outcome.Classification {
		case ClassificationDueSoon:
			summary.DueSoon++
		case ClassificationOverdue:
			summary.Overdue++
		}
		switch {
		case outcome.Skipped:
			summary.Skipped++
		case outcome.Marked:
			summary.Dispatched++
		case outcome.Classification != ClassificationNone:
			summary.Failed++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	s.logSummary(summary)
	return summary, nil
}

// evaluateLease classifies one lease and dispatches its notice if one is due.
func (s *Sweeper) evaluateLease(ctx context.Context, lease domain.Lease, today time.Time) LeaseOutcome {
	outcome := LeaseOutcome{
		LeaseID:      lease.ID,
		DaysUntilDue: daysBetween(today, lease.NextPaymentDate),
	}

	switch {
	case outcome.DaysUntilDue < 0:
		outcome.Classification = ClassificationOverdue
	case outcome.DaysUntilDue <= s.window:
		outcome.Classification = ClassificationDueSoon
	default:
		outcome.Classification = ClassificationNone
		return outcome
	}

	if lease.Reminded() {
		outcome.Skipped = true
		s.logger.Info("lease already notified this cycle",
			"lease_id", lease.ID, "cycle_key", lease.CycleKey())
		return outcome
	}

	notice, err := s.buildNotice(ctx, lease)
	if err != nil {
		outcome.Err = err
		s.logger.Error("failed to build payment notice", "lease_id", lease.ID, "error", err)
		return outcome
	}

	outcome.EmailErr, outcome.SMSErr = s.dispatch(ctx, lease, *notice, outcome.Classification)

	// The lease is marked once the notice reached the tenant on at least one
	// channel. If both channels failed the state is untouched so the next
	// sweep retries.
	if outcome.EmailErr == nil || outcome.SMSErr == nil {
		if err := s.leases.MarkLeaseReminded(ctx, lease.ID, lease.CycleKey()); err != nil {
			outcome.Err = fmt.Errorf("failed to mark lease reminded: %w", err)
			s.logger.Error("failed to record reminder state",
				"lease_id", lease.ID, "cycle_key", lease.CycleKey(), "error", err)
			return outcome
		}
		outcome.Marked = true
		s.logger.Info("payment notice dispatched",
			"lease_id", lease.ID,
			"classification", outcome.Classification,
			"days_until_due", outcome.DaysUntilDue,
			"email_ok", outcome.EmailErr == nil,
			"sms_ok", outcome.SMSErr == nil)
	} else {
		s.logger.Error("all notification channels failed",
			"lease_id", lease.ID,
			"email_error", outcome.EmailErr,
			"sms_error", outcome.SMSErr)
	}

	return outcome
}

// dispatch sends the notice on both channels, best-effort. Each channel's
// failure is independent and never short-circuits the other.
func (s *Sweeper) dispatch(ctx context.Context, lease domain.Lease, notice domain.PaymentNotice, classification string) (emailErr, smsErr error) {
	sendEmail := s.email.SendReminderEmail
	sendSMS := s.sms.SendReminderSMS
	if classification == ClassificationOverdue {
		sendEmail = s.email.SendOverdueEmail
		sendSMS = s.sms.SendOverdueSMS
	}

	emailID, emailErr := sendEmail(ctx, notice)
	if emailErr != nil {
		s.logger.Error("email dispatch failed", "lease_id", lease.ID, "error", emailErr)
	} else {
		s.logger.Info("email dispatched", "lease_id", lease.ID, "email_id", emailID)
	}

	smsID, smsErr := sendSMS(ctx, notice)
	if smsErr != nil {
		s.logger.Error("sms dispatch failed", "lease_id", lease.ID, "error", smsErr)
	} else {
		s.logger.Info("sms dispatched", "lease_id", lease.ID, "message_sid", smsID)
	}

	return emailErr, smsErr
}

// buildNotice resolves the tenant and property a notice needs for rendering.
func (s *Sweeper) buildNotice(ctx context.Context, lease domain.Lease) (*domain.PaymentNotice, error) {
	tenant, err := s.leases.GetTenant(ctx, lease.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant %s: %w", lease.TenantID, err)
	}
	property, err := s.leases.GetProperty(ctx, lease.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", lease.PropertyID, err)
	}
	return &domain.PaymentNotice{
		TenantName:      tenant.Name,
		TenantEmail:     tenant.Email,
		TenantPhone:     tenant.Phone,
		PropertyAddress: property.Address,
		AmountDue:       lease.MonthlyRent,
		DueDate:         lease.NextPaymentDate,
		PaymentLinkURL:  lease.PaymentLinkURL,
	}, nil
}

func (s *Sweeper) logSummary(summary SweepSummary) {
	s.logger.Info("reminder sweep finished",
		"evaluated", summary.Evaluated,
		"due_soon", summary.DueSoon,
		"overdue", summary.Overdue,
		"dispatched", summary.Dispatched,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
}

// daysBetween counts whole calendar days from one date to another, ignoring
// time of day so a due date later today is "due in 0 days".
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
