/**
 * @description
 * This file sets up the HTTP router for the property service using the
 * go-chi/chi router. It defines the API routes, applies middleware for logging,
 * CORS and authentication, and maps the routes to their handler functions.
 *
 * The Stripe webhook and the health check are mounted outside the API-key
 * group: the webhook authenticates with its own signature, and the health
 * check must stay reachable for platform liveness monitoring.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the property-service routes.
func NewRouter(h *Handler, webhook *WebhookHandler, allowedOrigin, apiKey string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Payment processor webhook, authenticated by signature.
	r.Post("/stripe-webhook", webhook.ServeHTTP)

	// Protected routes that require the API key
	r.Group(func(r chi.Router) {
		r.Use(APIKeyAuthMiddleware(apiKey))

		// Manual sweep trigger
		r.Post("/check-payments", h.handleCheckPayments)

		// Landlord routes
		r.Get("/landlords", h.handleListLandlords)
		r.Post("/landlord", h.handleCreateLandlord)
		r.Get("/landlord/email/{email}", h.handleGetLandlordByEmail)
		r.Get("/landlord/{landlordID}", h.handleGetLandlord)
		r.Put("/landlord/{landlordID}", h.handleUpdateLandlord)
		r.Delete("/landlord/{landlordID}", h.handleDeleteLandlord)
		r.Get("/landlord/{landlordID}/properties", h.handleListLandlordProperties)

		// Property routes
		r.Get("/properties", h.handleListProperties)
		r.Post("/property", h.handleCreateProperty)
		r.Get("/property/{propertyID}", h.handleGetProperty)
		r.Put("/property/{propertyID}", h.handleUpdateProperty)
		r.Delete("/property/{propertyID}", h.handleDeleteProperty)
		r.Get("/property/{propertyID}/payments", h.handleListPropertyPayments)

		// Tenant routes
		r.Get("/tenants", h.handleListTenants)
		r.Post("/tenant", h.handleCreateTenant)
		r.Get("/tenant/{tenantID}", h.handleGetTenant)
		r.Put("/tenant/{tenantID}", h.handleUpdateTenant)
		r.Delete("/tenant/{tenantID}", h.handleDeleteTenant)
		r.Get("/tenant/{tenantID}/lease", h.handleGetTenantLease)

		// Lease routes
		r.Get("/leases", h.handleListLeases)
		r.Post("/lease", h.handleCreateLease)
		r.Get("/lease/{leaseID}", h.handleGetLease)
		r.Put("/lease/{leaseID}", h.handleUpdateLease)
		r.Get("/lease/{leaseID}/payments", h.handleListLeasePayments)

		// Payment routes
		r.Get("/payments", h.handleListPayments)
		r.Post("/payment", h.handleCreatePayment)
		r.Get("/payment/{paymentID}", h.handleGetPayment)
		r.Put("/payment/{paymentID}", h.handleUpdatePayment)
		r.Delete("/payment/{paymentID}", h.handleDeletePayment)

		// Payment processor routes
		r.Post("/account/{landlordID}", h.handleCreateAccount)
		r.Get("/account/{accountID}", h.handleGetAccount)
		r.Post("/account/{accountID}/account-link", h.handleCreateAccountLink)
		r.Post("/account/{accountID}/login-link", h.handleCreateLoginLink)
		r.Post("/account/{accountID}/session", h.handleCreateAccountSession)
		r.Get("/balance/{accountID}", h.handleGetBalance)
		r.Get("/payouts/{accountID}", h.handleListPayouts)
		r.Get("/balance-transactions/{accountID}", h.handleListBalanceTransactions)
		r.Get("/charge/{accountID}", h.handleListCharges)
		r.Post("/checkout/{leaseID}/{paymentID}", h.handleCreateCheckout)
		r.Get("/checkout/{checkoutID}", h.handleGetCheckout)
		r.Post("/product", h.handleCreateProduct)
		r.Get("/product/{leaseID}/{paymentID}", h.handleGetProduct)
		r.Get("/products", h.handleListProducts)
		r.Get("/prices", h.handleListPrices)
		r.Post("/price/{productID}/{amount}", h.handleCreatePrice)
		r.Get("/event/{eventID}", h.handleGetEvent)

		// Email routes
		r.Post("/send-payment-link-email/{tenantID}", h.handleSendPaymentLinkEmail)
		r.Post("/send-reminder-email/{tenantID}", h.handleSendReminderEmail)
		r.Post("/send-overdue-email/{tenantID}", h.handleSendOverdueEmail)
		r.Post("/demo/{email}", h.handleSendDemoEmail)

		// SMS routes
		r.Post("/message/reminder/{tenantID}", h.handleSendReminderSMS)
		r.Post("/message/late/{tenantID}", h.handleSendLateSMS)
		r.Post("/message/{phone}", h.handleSendMessage)
	})

	return r
}
