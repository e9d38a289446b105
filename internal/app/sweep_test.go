package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/domain"
)

type leaseSourceStub struct {
	leases     []domain.Lease
	tenants    map[uuid.UUID]*domain.Tenant
	properties map[uuid.UUID]*domain.Property
	listErr    error
	markErr    error
	marked     map[uuid.UUID]string
}

func (s *leaseSourceStub) ListActiveLeases(ctx context.Context) ([]domain.Lease, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Lease, len(s.leases))
	for i, l := range s.leases {
		if key, ok := s.marked[l.ID]; ok {
			k := key
			l.RemindedCycleKey = &k
		}
		out[i] = l
	}
	return out, nil
}

func (s *leaseSourceStub) GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *leaseSourceStub) GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	p, ok := s.properties[propertyID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *leaseSourceStub) MarkLeaseReminded(ctx context.Context, leaseID uuid.UUID, cycleKey string) error {
	if s.markErr != nil {
		return s.markErr
	}
	if s.marked == nil {
		s.marked = make(map[uuid.UUID]string)
	}
	s.marked[leaseID] = cycleKey
	return nil
}

type emailStub struct {
	reminders   int
	overdues    int
	failTenants map[string]bool
}

func (s *emailStub) send(notice domain.PaymentNotice) (string, error) {
	if s.failTenants[notice.TenantName] {
		return "", &domain.DeliveryError{Channel: "email", Provider: "resend", Err: errors.New("provider rejected")}
	}
	return "email_abc123", nil
}

func (s *emailStub) SendReminderEmail(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	s.reminders++
	return s.send(notice)
}

func (s *emailStub) SendOverdueEmail(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	s.overdues++
	return s.send(notice)
}

type smsStub struct {
	reminders   int
	overdues    int
	failTenants map[string]bool
}

func (s *smsStub) send(notice domain.PaymentNotice) (string, error) {
	if s.failTenants[notice.TenantName] {
		return "", &domain.DeliveryError{Channel: "sms", Provider: "twilio", Err: errors.New("provider rejected")}
	}
	return "SM123", nil
}

func (s *smsStub) SendReminderSMS(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	s.reminders++
	return s.send(notice)
}

func (s *smsStub) SendOverdueSMS(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	s.overdues++
	return s.send(notice)
}

var testToday = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

// newTestLease returns a lease due the given number of days from testToday,
// registered with a tenant and property in the source.
func newTestLease(src *leaseSourceStub, tenantName string, daysUntilDue int) domain.Lease {
	tenantID := uuid.New()
	propertyID := uuid.New()
	lease := domain.Lease{
		ID:              uuid.New(),
		PropertyID:      propertyID,
		TenantID:        tenantID,
		MonthlyRent:     180000,
		NextPaymentDate: testToday.AddDate(0, 0, daysUntilDue),
		PaymentLinkURL:  "https://pay.example.com/" + tenantName,
		Status:          domain.LeaseStatusActive,
	}
	if src.tenants == nil {
		src.tenants = make(map[uuid.UUID]*domain.Tenant)
	}
	if src.properties == nil {
		src.properties = make(map[uuid.UUID]*domain.Property)
	}
	src.tenants[tenantID] = &domain.Tenant{ID: tenantID, Name: tenantName, Email: tenantName + "@example.com", Phone: "+61400000000"}
	src.properties[propertyID] = &domain.Property{ID: propertyID, Address: "1 Example St"}
	src.leases = append(src.leases, lease)
	return lease
}

func newTestSweeper(t *testing.T, src *leaseSourceStub, email *emailStub, sms *smsStub, window int) *Sweeper {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper, err := NewSweeper(src, email, sms, window, logger)
	if err != nil {
		t.Fatalf("NewSweeper returned error: %v", err)
	}
	sweeper.now = func() time.Time { return testToday }
	return sweeper
}

func TestSweep_DispatchesReminderInsideWindow(t *testing.T) {
	src := &leaseSourceStub{}
	lease := newTestLease(src, "alice", 2)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if email.reminders != 1 || sms.reminders != 1 {
		t.Fatalf("expected one reminder per channel, got email=%d sms=%d", email.reminders, sms.reminders)
	}
	if email.overdues != 0 || sms.overdues != 0 {
		t.Fatal("expected no overdue dispatches for a due-soon lease")
	}
	if summary.DueSoon != 1 || summary.Dispatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := src.marked[lease.ID]; got != lease.CycleKey() {
		t.Fatalf("expected lease marked with cycle key %q, got %q", lease.CycleKey(), got)
	}
}

func TestSweep_DispatchesOverdueNotice(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "bob", -5)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if email.overdues != 1 || sms.overdues != 1 {
		t.Fatalf("expected one overdue notice per channel, got email=%d sms=%d", email.overdues, sms.overdues)
	}
	if email.reminders != 0 || sms.reminders != 0 {
		t.Fatal("expected no reminder dispatches for an overdue lease")
	}
	if summary.Overdue != 1 || summary.Dispatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSweep_NoDispatchOutsideWindow(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "carol", 4)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if email.reminders+email.overdues+sms.reminders+sms.overdues != 0 {
		t.Fatal("expected no dispatches for a lease outside the window")
	}
	if len(src.marked) != 0 {
		t.Fatal("expected no reminder state written")
	}
	if summary.Evaluated != 1 || summary.DueSoon != 0 || summary.Overdue != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSweep_WindowBoundariesAreInclusive(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "due-today", 0)
	newTestLease(src, "window-edge", 3)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if email.reminders != 2 {
		t.Fatalf("expected reminders at both boundaries, got %d", email.reminders)
	}
	if summary.Overdue != 0 {
		t.Fatal("a lease due today must not be classified overdue")
	}
}

func TestSweep_SecondRunDispatchesNothing(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "alice", 2)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	if _, err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	if email.reminders != 1 || sms.reminders != 1 {
		t.Fatalf("expected no additional dispatches on second run, got email=%d sms=%d", email.reminders, sms.reminders)
	}
	if summary.Skipped != 1 {
		t.Fatalf("expected second run to skip the lease, summary: %+v", summary)
	}
}

func TestSweep_AdvancedDueDateReArmsLease(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "alice", 2)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	if _, err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}

	// A recorded payment advances next_payment_date, changing the cycle key.
	src.leases[0].NextPaymentDate = src.leases[0].NextPaymentDate.AddDate(0, 1, 0)
	// Jump forward so the new due date is inside the window again.
	sweeper.now = func() time.Time { return testToday.AddDate(0, 1, 0) }

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	if email.reminders != 2 || sms.reminders != 2 {
		t.Fatalf("expected a new dispatch after the cycle advanced, got email=%d sms=%d", email.reminders, sms.reminders)
	}
	if summary.Skipped != 0 || summary.Dispatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSweep_FaultIsolationBetweenLeases(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "alice", 2)
	leaseB := newTestLease(src, "bob", -1)
	email := &emailStub{failTenants: map[string]bool{"alice": true}}
	sms := &smsStub{failTenants: map[string]bool{"alice": true}}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if email.overdues != 1 || sms.overdues != 1 {
		t.Fatal("expected the second lease to receive its overdue notice despite the first lease's failure")
	}
	if _, ok := src.marked[leaseB.ID]; !ok {
		t.Fatal("expected the second lease to be marked reminded")
	}
	if summary.Failed != 1 || summary.Dispatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSweep_PartialChannelFailureStillMarksLease(t *testing.T) {
	src := &leaseSourceStub{}
	lease := newTestLease(src, "alice", 1)
	email := &emailStub{failTenants: map[string]bool{"alice": true}}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, ok := src.marked[lease.ID]; !ok {
		t.Fatal("expected lease marked when one channel delivered")
	}
	outcome := summary.Outcomes[0]
	if outcome.EmailErr == nil || outcome.SMSErr != nil {
		t.Fatalf("expected email failure and sms success, got email=%v sms=%v", outcome.EmailErr, outcome.SMSErr)
	}

	var deliveryErr *domain.DeliveryError
	if !errors.As(outcome.EmailErr, &deliveryErr) {
		t.Fatalf("expected a DeliveryError, got %T", outcome.EmailErr)
	}
}

func TestSweep_TotalChannelFailureLeavesStateForRetry(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "alice", 1)
	email := &emailStub{failTenants: map[string]bool{"alice": true}}
	sms := &smsStub{failTenants: map[string]bool{"alice": true}}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	if len(src.marked) != 0 {
		t.Fatal("expected no reminder state when every channel failed")
	}
	if summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// The channels recover; the next sweep retries the same cycle.
	email.failTenants = nil
	sms.failTenants = nil
	if _, err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if email.reminders != 2 || len(src.marked) != 1 {
		t.Fatalf("expected retry to dispatch and mark, reminders=%d marked=%d", email.reminders, len(src.marked))
	}
}

func TestSweep_MissingTenantDoesNotAbortSweep(t *testing.T) {
	src := &leaseSourceStub{}
	broken := newTestLease(src, "ghost", 1)
	delete(src.tenants, broken.TenantID)
	newTestLease(src, "alice", 1)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	summary, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if email.reminders != 1 {
		t.Fatalf("expected the healthy lease to dispatch, got %d", email.reminders)
	}
	if summary.Failed != 1 || summary.Dispatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !errors.Is(summary.Outcomes[0].Err, domain.ErrNotFound) {
		t.Fatalf("expected not-found outcome error, got %v", summary.Outcomes[0].Err)
	}
}

func TestSweep_CancelledContextStopsBeforeNextLease(t *testing.T) {
	src := &leaseSourceStub{}
	newTestLease(src, "alice", 1)
	newTestLease(src, "bob", 1)
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := sweeper.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Evaluated != 0 || email.reminders != 0 {
		t.Fatal("expected no lease evaluated after cancellation")
	}
}

func TestSweep_ListFailureReturnsError(t *testing.T) {
	src := &leaseSourceStub{listErr: errors.New("db unavailable")}
	email := &emailStub{}
	sms := &smsStub{}
	sweeper := newTestSweeper(t, src, email, sms, 3)

	if _, err := sweeper.Run(context.Background()); err == nil {
		t.Fatal("expected error when listing leases fails")
	}
}

func TestNewSweeper_RejectsNegativeWindow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewSweeper(&leaseSourceStub{}, &emailStub{}, &smsStub{}, -1, logger); err == nil {
		t.Fatal("expected a negative reminder window to be rejected")
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 11, 0, 1, 0, 0, time.UTC)
	if got := daysBetween(from, to); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
	if got := daysBetween(to, from); got != -1 {
		t.Fatalf("expected -1 day, got %d", got)
	}
}
