/**
 * @description
 * This file defines the Handler type shared by every endpoint, its collaborator
 * interfaces, and the landlord, property and tenant CRUD handlers. Handlers
 * parse requests, call the repository or the relevant collaborator, and write
 * the HTTP response.
 */
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/app"
	"github.com/williamphan99/resera-template/internal/domain"
	"github.com/williamphan99/resera-template/internal/store"
	"github.com/williamphan99/resera-template/pkg/stripeclient"
)

// SweepRunner starts one reminder sweep; the manual trigger endpoint runs it
// in the background and reports acknowledgement only.
type SweepRunner interface {
	Run(ctx context.Context) (app.SweepSummary, error)
}

// EmailSender is the email channel as the handlers see it.
type EmailSender interface {
	SendReminderEmail(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendOverdueEmail(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendPaymentLinkEmail(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendWelcomeEmail(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendDemoEmail(ctx context.Context, email string) (string, error)
}

// SMSSender is the SMS channel as the handlers see it.
type SMSSender interface {
	SendReminderSMS(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendOverdueSMS(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendWelcomeSMS(ctx context.Context, notice domain.PaymentNotice) (string, error)
	SendMessage(ctx context.Context, to, body string) (string, error)
}

// PaymentProcessor is the payment-provider surface the handlers use.
type PaymentProcessor interface {
	CreateAccount(ctx context.Context, email string) (*stripeclient.Account, error)
	GetAccount(ctx context.Context, accountID string) (*stripeclient.Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*stripeclient.Link, error)
	CreateLoginLink(ctx context.Context, accountID string) (*stripeclient.Link, error)
	CreateAccountSession(ctx context.Context, accountID string) (*stripeclient.AccountSession, error)
	CreateCheckoutSession(ctx context.Context, params stripeclient.CheckoutParams) (*stripeclient.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripeclient.CheckoutSession, error)
	CreateProduct(ctx context.Context, params stripeclient.ProductParams) (*stripeclient.Product, error)
	GetProduct(ctx context.Context, leaseID, paymentID string) (*stripeclient.Product, error)
	ListProducts(ctx context.Context, limit int) ([]stripeclient.Product, error)
	CreatePrice(ctx context.Context, productID string, amount int64, currency string) (*stripeclient.Price, error)
	ListPrices(ctx context.Context, limit int) ([]stripeclient.Price, error)
	GetBalance(ctx context.Context, accountID string) (*stripeclient.Balance, error)
	ListPayouts(ctx context.Context, accountID string) ([]stripeclient.Payout, error)
	ListBalanceTransactions(ctx context.Context, accountID string) ([]stripeclient.BalanceTransaction, error)
	ListCharges(ctx context.Context, accountID string) ([]stripeclient.Charge, error)
	GetEvent(ctx context.Context, eventID string) (*stripeclient.Event, error)
}

// Handler holds the collaborators the endpoints interact with.
type Handler struct {
	repo    store.Repository
	sweeper SweepRunner
	stripe  PaymentProcessor
	email   EmailSender
	sms     SMSSender
	logger  *slog.Logger
	baseURL string
}

// NewHandler creates a new Handler with the given collaborators.
func NewHandler(repo store.Repository, sweeper SweepRunner, stripe PaymentProcessor, email EmailSender, sms SMSSender, logger *slog.Logger, baseURL string) *Handler {
	return &Handler{
		repo:    repo,
		sweeper: sweeper,
		stripe:  stripe,
		email:   email,
		sms:     sms,
		logger:  logger,
		baseURL: baseURL,
	}
}

// respondWithJSON is a helper function to write JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondStoreError maps repository errors to HTTP statuses.
func (h *Handler) respondStoreError(w http.ResponseWriter, err error, entity string) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, entity+" not found", http.StatusNotFound)
		return
	}
	h.logger.Error("repository error", "entity", entity, "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// parseUUIDParam reads a UUID path parameter, writing a 400 on failure.
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads the skip/limit query parameters with the original
// API's defaults.
func parsePagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return skip, limit
}

// handleCheckPayments starts a reminder sweep outside the periodic schedule.
// The response is acknowledgement only; per-lease outcomes go to the logs.
func (h *Handler) handleCheckPayments(w http.ResponseWriter, r *http.Request) {
	go func() {
		if _, err := h.sweeper.Run(context.Background()); err != nil {
			h.logger.Error("manual reminder sweep failed", "error", err)
		}
	}()

	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Payment check initiated"})
}

// Landlord handlers

func (h *Handler) handleListLandlords(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	landlords, err := h.repo.ListLandlords(r.Context(), skip, limit)
	if err != nil {
		h.respondStoreError(w, err, "Landlords")
		return
	}
	respondWithJSON(w, http.StatusOK, landlords)
}

func (h *Handler) handleGetLandlord(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := parseUUIDParam(w, r, "landlordID")
	if !ok {
		return
	}
	landlord, err := h.repo.GetLandlord(r.Context(), landlordID)
	if err != nil {
		h.respondStoreError(w, err, "Landlord")
		return
	}
	respondWithJSON(w, http.StatusOK, landlord)
}

func (h *Handler) handleGetLandlordByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	landlord, err := h.repo.GetLandlordByEmail(r.Context(), email)
	if err != nil {
		h.respondStoreError(w, err, "Landlord")
		return
	}
	respondWithJSON(w, http.StatusOK, landlord)
}

func (h *Handler) handleCreateLandlord(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLandlordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	landlord, err := h.repo.CreateLandlord(r.Context(), req)
	if err != nil {
		h.respondStoreError(w, err, "Landlord")
		return
	}
	h.logger.Info("landlord created", "landlord_id", landlord.ID)
	respondWithJSON(w, http.StatusCreated, landlord)
}

func (h *Handler) handleUpdateLandlord(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := parseUUIDParam(w, r, "landlordID")
	if !ok {
		return
	}
	var req domain.UpdateLandlordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateLandlord(r.Context(), landlordID, req); err != nil {
		h.respondStoreError(w, err, "Landlord")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteLandlord(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := parseUUIDParam(w, r, "landlordID")
	if !ok {
		return
	}
	if err := h.repo.DeleteLandlord(r.Context(), landlordID); err != nil {
		h.respondStoreError(w, err, "Landlord")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListLandlordProperties(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := parseUUIDParam(w, r, "landlordID")
	if !ok {
		return
	}
	properties, err := h.repo.ListPropertiesByLandlord(r.Context(), landlordID)
	if err != nil {
		h.respondStoreError(w, err, "Properties")
		return
	}
	respondWithJSON(w, http.StatusOK, properties)
}

// Property handlers

func (h *Handler) handleListProperties(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	properties, err := h.repo.ListProperties(r.Context(), skip, limit)
	if err != nil {
		h.respondStoreError(w, err, "Properties")
		return
	}
	respondWithJSON(w, http.StatusOK, properties)
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parseUUIDParam(w, r, "propertyID")
	if !ok {
		return
	}
	property, err := h.repo.GetProperty(r.Context(), propertyID)
	if err != nil {
		h.respondStoreError(w, err, "Property")
		return
	}
	respondWithJSON(w, http.StatusOK, property)
}

func (h *Handler) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	property, err := h.repo.CreateProperty(r.Context(), req)
	if err != nil {
		h.respondStoreError(w, err, "Property")
		return
	}
	h.logger.Info("property created", "property_id", property.ID, "landlord_id", property.LandlordID)
	respondWithJSON(w, http.StatusCreated, property)
}

func (h *Handler) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parseUUIDParam(w, r, "propertyID")
	if !ok {
		return
	}
	var req domain.UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateProperty(r.Context(), propertyID, req); err != nil {
		h.respondStoreError(w, err, "Property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parseUUIDParam(w, r, "propertyID")
	if !ok {
		return
	}
	if err := h.repo.DeleteProperty(r.Context(), propertyID); err != nil {
		h.respondStoreError(w, err, "Property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListPropertyPayments(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parseUUIDParam(w, r, "propertyID")
	if !ok {
		return
	}
	if _, err := h.repo.GetProperty(r.Context(), propertyID); err != nil {
		h.respondStoreError(w, err, "Property")
		return
	}
	payments, err := h.repo.ListPaymentsByProperty(r.Context(), propertyID)
	if err != nil {
		h.respondStoreError(w, err, "Payments")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}

// Tenant handlers

func (h *Handler) handleListTenants(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	tenants, err := h.repo.ListTenants(r.Context(), skip, limit)
	if err != nil {
		h.respondStoreError(w, err, "Tenants")
		return
	}
	respondWithJSON(w, http.StatusOK, tenants)
}

func (h *Handler) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := parseUUIDParam(w, r, "tenantID")
	if !ok {
		return
	}
	tenant, err := h.repo.GetTenant(r.Context(), tenantID)
	if err != nil {
		h.respondStoreError(w, err, "Tenant")
		return
	}
	respondWithJSON(w, http.StatusOK, tenant)
}

func (h *Handler) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tenant, err := h.repo.CreateTenant(r.Context(), req)
	if err != nil {
		h.respondStoreError(w, err, "Tenant")
		return
	}
	h.logger.Info("tenant created", "tenant_id", tenant.ID, "property_id", tenant.PropertyID)
	respondWithJSON(w, http.StatusCreated, tenant)
}

func (h *Handler) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := parseUUIDParam(w, r, "tenantID")
	if !ok {
		return
	}
	var req domain.UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateTenant(r.Context(), tenantID, req); err != nil {
		h.respondStoreError(w, err, "Tenant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := parseUUIDParam(w, r, "tenantID")
	if !ok {
		return
	}
	if err := h.repo.DeleteTenant(r.Context(), tenantID); err != nil {
		h.respondStoreError(w, err, "Tenant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
