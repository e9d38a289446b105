/**
 * @description
 * Payment-processor endpoints: connected accounts for landlords, onboarding
 * and login links, checkout sessions for rent payments, and product, price and
 * balance lookups.
 */
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/pkg/stripeclient"
)

// handleCreateAccount creates a connected account for a landlord and stores
// the account ID on the landlord row.
func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := parseUUIDParam(w, r, "landlordID")
	if !ok {
		return
	}
	landlord, err := h.repo.GetLandlord(r.Context(), landlordID)
	if err != nil {
		h.respondStoreError(w, err, "Landlord")
		return
	}

	account, err := h.stripe.CreateAccount(r.Context(), landlord.Email)
	if err != nil {
		h.logger.Error("failed to create connected account", "landlord_id", landlordID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.repo.SetLandlordStripeAccount(r.Context(), landlordID, account.ID); err != nil {
		h.respondStoreError(w, err, "Landlord")
		return
	}

	h.logger.Info("connected account created", "landlord_id", landlordID, "account_id", account.ID)
	respondWithJSON(w, http.StatusCreated, account)
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	account, err := h.stripe.GetAccount(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to fetch account", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

func (h *Handler) handleCreateAccountLink(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	refreshURL := h.baseURL + "/onboarding/refresh"
	returnURL := h.baseURL + "/onboarding/complete"

	link, err := h.stripe.CreateAccountLink(r.Context(), accountID, refreshURL, returnURL)
	if err != nil {
		h.logger.Error("failed to create account link", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusCreated, link)
}

func (h *Handler) handleCreateLoginLink(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	link, err := h.stripe.CreateLoginLink(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to create login link", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusCreated, link)
}

// handleCreateAccountSession creates an embedded-components session so the
// dashboard can render payments for a connected account.
func (h *Handler) handleCreateAccountSession(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	session, err := h.stripe.CreateAccountSession(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to create account session", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	balance, err := h.stripe.GetBalance(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to fetch balance", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, balance)
}

// handleCreateCheckout creates a checkout session for one recorded payment.
// The lease and payment IDs travel in the session metadata so the webhook can
// settle the right payment later.
func (h *Handler) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := parseUUIDParam(w, r, "leaseID")
	if !ok {
		return
	}
	paymentID, ok := parseUUIDParam(w, r, "paymentID")
	if !ok {
		return
	}

	lease, err := h.repo.GetLease(r.Context(), leaseID)
	if err != nil {
		h.respondStoreError(w, err, "Lease")
		return
	}
	payment, err := h.repo.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.respondStoreError(w, err, "Payment")
		return
	}

	property, err := h.repo.GetProperty(r.Context(), lease.PropertyID)
	if err != nil {
		h.respondStoreError(w, err, "Property")
		return
	}

	session, err := h.stripe.CreateCheckoutSession(r.Context(), stripeclient.CheckoutParams{
		LeaseID:     lease.ID.String(),
		PaymentID:   payment.ID.String(),
		Description: fmt.Sprintf("Rent for %s", property.Address),
		Amount:      payment.Amount,
		Currency:    "aud",
		SuccessURL:  h.baseURL + "/payment/success",
		CancelURL:   h.baseURL + "/payment/cancelled",
	})
	if err != nil {
		h.logger.Error("failed to create checkout session", "lease_id", leaseID, "payment_id", paymentID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("checkout session created", "lease_id", leaseID, "payment_id", paymentID, "session_id", session.ID)
	respondWithJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	checkoutID := chi.URLParam(r, "checkoutID")
	session, err := h.stripe.GetCheckoutSession(r.Context(), checkoutID)
	if err != nil {
		h.logger.Error("failed to fetch checkout session", "checkout_id", checkoutID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// handleCreateProduct creates a product tagged with a lease and payment so the
// product can be found again without storing its provider ID.
func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	leaseID, err := uuid.Parse(r.URL.Query().Get("lease_id"))
	if err != nil {
		http.Error(w, "Invalid lease_id", http.StatusBadRequest)
		return
	}
	paymentID, err := uuid.Parse(r.URL.Query().Get("payment_id"))
	if err != nil {
		http.Error(w, "Invalid payment_id", http.StatusBadRequest)
		return
	}
	tenantName := r.URL.Query().Get("tenant_name")
	if tenantName == "" {
		http.Error(w, "Missing tenant_name", http.StatusBadRequest)
		return
	}

	product, err := h.stripe.CreateProduct(r.Context(), stripeclient.ProductParams{
		LeaseID:    leaseID.String(),
		PaymentID:  paymentID.String(),
		TenantName: tenantName,
	})
	if err != nil {
		h.logger.Error("failed to create product", "lease_id", leaseID, "payment_id", paymentID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := parseUUIDParam(w, r, "leaseID")
	if !ok {
		return
	}
	paymentID, ok := parseUUIDParam(w, r, "paymentID")
	if !ok {
		return
	}

	product, err := h.stripe.GetProduct(r.Context(), leaseID.String(), paymentID.String())
	if err != nil {
		if errors.Is(err, stripeclient.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch product", "lease_id", leaseID, "payment_id", paymentID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.stripe.ListProducts(r.Context(), parseLimitQuery(r))
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *Handler) handleListPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.stripe.ListPrices(r.Context(), parseLimitQuery(r))
	if err != nil {
		h.logger.Error("failed to list prices", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, prices)
}

func (h *Handler) handleCreatePrice(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	amount, err := strconv.ParseInt(chi.URLParam(r, "amount"), 10, 64)
	if err != nil || amount <= 0 {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	price, err := h.stripe.CreatePrice(r.Context(), productID, amount, "aud")
	if err != nil {
		h.logger.Error("failed to create price", "product_id", productID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusCreated, price)
}

func (h *Handler) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	payouts, err := h.stripe.ListPayouts(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to list payouts", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, payouts)
}

func (h *Handler) handleListBalanceTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	transactions, err := h.stripe.ListBalanceTransactions(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to list balance transactions", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, transactions)
}

func (h *Handler) handleListCharges(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	charges, err := h.stripe.ListCharges(r.Context(), accountID)
	if err != nil {
		h.logger.Error("failed to list charges", "account_id", accountID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, charges)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.stripe.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, stripeclient.ErrNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch event", "event_id", eventID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondWithJSON(w, http.StatusOK, event)
}

// parseLimitQuery reads the limit query parameter, defaulting to 10.
func parseLimitQuery(r *http.Request) int {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return limit
}
