/**
 * @description
 * On-demand notification endpoints: payment-link, reminder and overdue emails,
 * reminder/late SMS messages for a single tenant, demo-request emails and
 * ad-hoc SMS deliverability checks. The reminder endpoints pick the overdue
 * variant when the tenant's due date has already passed, as the sweep does.
 */
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/williamphan99/resera-template/internal/domain"
)

// buildNotice assembles the notification payload for a lease.
func (h *Handler) buildNotice(ctx context.Context, lease domain.Lease) (*domain.PaymentNotice, error) {
	tenant, err := h.repo.GetTenant(ctx, lease.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	property, err := h.repo.GetProperty(ctx, lease.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
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

// noticeForTenant resolves a tenant's lease and builds the notice, writing the
// 404 response itself when a record is missing.
func (h *Handler) noticeForTenant(w http.ResponseWriter, r *http.Request) (*domain.PaymentNotice, *domain.Lease, bool) {
	tenantID, ok := parseUUIDParam(w, r, "tenantID")
	if !ok {
		return nil, nil, false
	}
	if _, err := h.repo.GetTenant(r.Context(), tenantID); err != nil {
		h.respondStoreError(w, err, "Tenant")
		return nil, nil, false
	}
	lease, err := h.repo.GetLeaseByTenant(r.Context(), tenantID)
	if err != nil {
		h.respondStoreError(w, err, "Lease")
		return nil, nil, false
	}
	notice, err := h.buildNotice(r.Context(), *lease)
	if err != nil {
		h.respondStoreError(w, err, "Property")
		return nil, nil, false
	}
	return notice, lease, true
}

// dueDatePassed reports whether the lease's due date is before today.
func dueDatePassed(lease domain.Lease) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := time.Date(lease.NextPaymentDate.Year(), lease.NextPaymentDate.Month(), lease.NextPaymentDate.Day(), 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}

func (h *Handler) handleSendPaymentLinkEmail(w http.ResponseWriter, r *http.Request) {
	notice, _, ok := h.noticeForTenant(w, r)
	if !ok {
		return
	}

	emailID, err := h.email.SendPaymentLinkEmail(r.Context(), *notice)
	if err != nil {
		h.logger.Error("payment link email failed", "error", err)
		respondWithJSON(w, http.StatusBadGateway, domain.EmailResponse{Success: false, Message: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusAccepted, domain.EmailResponse{Success: true, Message: "Email sent successfully", EmailID: emailID})
}

func (h *Handler) handleSendReminderEmail(w http.ResponseWriter, r *http.Request) {
	notice, lease, ok := h.noticeForTenant(w, r)
	if !ok {
		return
	}

	send := h.email.SendReminderEmail
	if dueDatePassed(*lease) {
		send = h.email.SendOverdueEmail
	}

	emailID, err := send(r.Context(), *notice)
	if err != nil {
		h.logger.Error("reminder email failed", "lease_id", lease.ID, "error", err)
		respondWithJSON(w, http.StatusBadGateway, domain.EmailResponse{Success: false, Message: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusAccepted, domain.EmailResponse{Success: true, Message: "Email sent successfully", EmailID: emailID})
}

func (h *Handler) handleSendOverdueEmail(w http.ResponseWriter, r *http.Request) {
	notice, lease, ok := h.noticeForTenant(w, r)
	if !ok {
		return
	}

	emailID, err := h.email.SendOverdueEmail(r.Context(), *notice)
	if err != nil {
		h.logger.Error("overdue email failed", "lease_id", lease.ID, "error", err)
		respondWithJSON(w, http.StatusBadGateway, domain.EmailResponse{Success: false, Message: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusAccepted, domain.EmailResponse{Success: true, Message: "Email sent successfully", EmailID: emailID})
}

func (h *Handler) handleSendReminderSMS(w http.ResponseWriter, r *http.Request) {
	notice, lease, ok := h.noticeForTenant(w, r)
	if !ok {
		return
	}

	send := h.sms.SendReminderSMS
	if dueDatePassed(*lease) {
		send = h.sms.SendOverdueSMS
	}

	sid, err := send(r.Context(), *notice)
	if err != nil {
		h.logger.Error("reminder sms failed", "lease_id", lease.ID, "error", err)
		respondWithJSON(w, http.StatusAccepted, domain.MessageResponse{Success: false, Message: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusAccepted, domain.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Message sent successfully. SID: %s", sid),
	})
}

func (h *Handler) handleSendLateSMS(w http.ResponseWriter, r *http.Request) {
	notice, lease, ok := h.noticeForTenant(w, r)
	if !ok {
		return
	}

	sid, err := h.sms.SendOverdueSMS(r.Context(), *notice)
	if err != nil {
		h.logger.Error("late sms failed", "lease_id", lease.ID, "error", err)
		respondWithJSON(w, http.StatusAccepted, domain.MessageResponse{Success: false, Message: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusAccepted, domain.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Message sent successfully. SID: %s", sid),
	})
}

// handleSendDemoEmail confirms a product-demo request from a prospective
// landlord. The address comes from the path, not from a stored tenant.
func (h *Handler) handleSendDemoEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if _, err := mail.ParseAddress(email); err != nil {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}

	emailID, err := h.email.SendDemoEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("demo email failed", "email", email, "error", err)
		respondWithJSON(w, http.StatusBadGateway, domain.EmailResponse{Success: false, Message: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusAccepted, domain.EmailResponse{
		Success: true,
		Message: "Demo request email sent successfully",
		EmailID: emailID,
	})
}

// handleSendMessage sends an ad-hoc SMS to a raw phone number, used for
// deliverability checks. Delivery failures are reported in the response body.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Body == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sid, err := h.sms.SendMessage(r.Context(), phone, req.Body)
	if err != nil {
		h.logger.Error("ad-hoc sms failed", "phone", phone, "error", err)
		respondWithJSON(w, http.StatusAccepted, domain.MessageResponse{Success: false, Message: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusAccepted, domain.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Message sent successfully. SID: %s", sid),
	})
}
