package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/domain"
)

type settlementStoreStub struct {
	recorded []domain.PaymentSettledEvent
	err      error
}

func (s *settlementStoreStub) RecordSettledPayment(ctx context.Context, event domain.PaymentSettledEvent) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, event)
	return nil
}

func settledEventBody(t *testing.T) []byte {
	t.Helper()
	event := domain.PaymentSettledEvent{
		EventID:         "evt_123",
		LeaseID:         uuid.New(),
		PaymentID:       uuid.New(),
		StripePaymentID: "cs_test_abc",
		Amount:          180000,
		SettledAt:       time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return body
}

func TestHandlePaymentSettledEvent_AcksAndRecords(t *testing.T) {
	store := &settlementStoreStub{}
	handler := NewPaymentEventHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if !handler.HandlePaymentSettledEvent(settledEventBody(t)) {
		t.Fatal("expected a recorded settlement to be acked")
	}
	if len(store.recorded) != 1 {
		t.Fatalf("expected one settlement recorded, got %d", len(store.recorded))
	}
	if store.recorded[0].EventID != "evt_123" {
		t.Errorf("unexpected event id %q", store.recorded[0].EventID)
	}
}

func TestHandlePaymentSettledEvent_AcksMalformedBody(t *testing.T) {
	store := &settlementStoreStub{}
	handler := NewPaymentEventHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if !handler.HandlePaymentSettledEvent([]byte("not-json")) {
		t.Fatal("expected a malformed message to be acked, not requeued")
	}
	if len(store.recorded) != 0 {
		t.Fatal("expected no store call for a malformed message")
	}
}

func TestHandlePaymentSettledEvent_AcksMissingLeaseID(t *testing.T) {
	store := &settlementStoreStub{}
	handler := NewPaymentEventHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	body, _ := json.Marshal(domain.PaymentSettledEvent{EventID: "evt_456"})
	if !handler.HandlePaymentSettledEvent(body) {
		t.Fatal("expected an event without a lease id to be acked")
	}
	if len(store.recorded) != 0 {
		t.Fatal("expected no store call for an event without a lease id")
	}
}

func TestHandlePaymentSettledEvent_AcksUnknownLease(t *testing.T) {
	store := &settlementStoreStub{err: domain.ErrNotFound}
	handler := NewPaymentEventHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if !handler.HandlePaymentSettledEvent(settledEventBody(t)) {
		t.Fatal("expected an unknown lease to be acked to avoid a requeue loop")
	}
}

func TestHandlePaymentSettledEvent_RequeuesTransientError(t *testing.T) {
	store := &settlementStoreStub{err: errors.New("connection reset")}
	handler := NewPaymentEventHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if handler.HandlePaymentSettledEvent(settledEventBody(t)) {
		t.Fatal("expected a transient store failure to be requeued")
	}
}
