/**
 * @description
 * Lease and payment endpoints. Creating a lease optionally sends welcome
 * notifications; recording a succeeded payment advances the lease's billing
 * cycle in the repository.
 */
package api

import (
	"encoding/json"
	"net/http"

	"github.com/williamphan99/resera-template/internal/domain"
)

// Lease handlers

func (h *Handler) handleListLeases(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	leases, err := h.repo.ListLeases(r.Context(), skip, limit)
	if err != nil {
		h.respondStoreError(w, err, "Leases")
		return
	}
	respondWithJSON(w, http.StatusOK, leases)
}

func (h *Handler) handleGetLease(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := parseUUIDParam(w, r, "leaseID")
	if !ok {
		return
	}
	lease, err := h.repo.GetLease(r.Context(), leaseID)
	if err != nil {
		h.respondStoreError(w, err, "Lease")
		return
	}
	respondWithJSON(w, http.StatusOK, lease)
}

func (h *Handler) handleCreateLease(w http.ResponseWriter, r *http.Request) {
	sendWelcome := r.URL.Query().Get("sendWelcome") == "true"

	var req domain.CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lease, err := h.repo.CreateLease(r.Context(), req)
	if err != nil {
		h.respondStoreError(w, err, "Lease")
		return
	}
	h.logger.Info("lease created", "lease_id", lease.ID, "tenant_id", lease.TenantID, "send_welcome", sendWelcome)

	// Welcome notifications are best-effort; the lease exists either way.
	if sendWelcome {
		notice, err := h.buildNotice(r.Context(), *lease)
		if err != nil {
			h.logger.Error("failed to build welcome notice", "lease_id", lease.ID, "error", err)
		} else {
			if _, err := h.email.SendWelcomeEmail(r.Context(), *notice); err != nil {
				h.logger.Error("welcome email failed", "lease_id", lease.ID, "error", err)
			}
			if _, err := h.sms.SendWelcomeSMS(r.Context(), *notice); err != nil {
				h.logger.Error("welcome sms failed", "lease_id", lease.ID, "error", err)
			}
		}
	}

	respondWithJSON(w, http.StatusCreated, lease)
}

func (h *Handler) handleUpdateLease(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := parseUUIDParam(w, r, "leaseID")
	if !ok {
		return
	}
	var req domain.UpdateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateLease(r.Context(), leaseID, req); err != nil {
		h.respondStoreError(w, err, "Lease")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetTenantLease(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := parseUUIDParam(w, r, "tenantID")
	if !ok {
		return
	}
	lease, err := h.repo.GetLeaseByTenant(r.Context(), tenantID)
	if err != nil {
		h.respondStoreError(w, err, "Lease")
		return
	}
	respondWithJSON(w, http.StatusOK, lease)
}

func (h *Handler) handleListLeasePayments(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := parseUUIDParam(w, r, "leaseID")
	if !ok {
		return
	}
	payments, err := h.repo.ListPaymentsByLease(r.Context(), leaseID)
	if err != nil {
		h.respondStoreError(w, err, "Payments")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}

// Payment handlers

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	payments, err := h.repo.ListPayments(r.Context(), skip, limit)
	if err != nil {
		h.respondStoreError(w, err, "Payments")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := parseUUIDParam(w, r, "paymentID")
	if !ok {
		return
	}
	payment, err := h.repo.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.respondStoreError(w, err, "Payment")
		return
	}
	respondWithJSON(w, http.StatusOK, payment)
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.repo.CreatePayment(r.Context(), req)
	if err != nil {
		h.respondStoreError(w, err, "Payment")
		return
	}
	h.logger.Info("payment recorded", "payment_id", payment.ID, "lease_id", payment.LeaseID, "status", payment.Status)
	respondWithJSON(w, http.StatusCreated, payment)
}

func (h *Handler) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := parseUUIDParam(w, r, "paymentID")
	if !ok {
		return
	}
	var req domain.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdatePayment(r.Context(), paymentID, req); err != nil {
		h.respondStoreError(w, err, "Payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := parseUUIDParam(w, r, "paymentID")
	if !ok {
		return
	}
	if err := h.repo.DeletePayment(r.Context(), paymentID); err != nil {
		h.respondStoreError(w, err, "Payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
