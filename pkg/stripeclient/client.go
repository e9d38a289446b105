/**
 * @description
 * This package provides a client for the Stripe API surface the back office
 * uses: connected accounts for landlords, onboarding/login links, checkout
 * sessions for rent payments, and the product/price/balance lookups behind
 * payment links.
 *
 * Key features:
 * - Manages the API base URL and secret key.
 * - Encodes requests as form data, Stripe's wire format.
 * - Handles response decoding and error translation for API calls.
 */
package stripeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a client for the Stripe API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a new Stripe API client.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Account is a connected Stripe account for a landlord.
type Account struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

// Link is a time-limited URL returned by the account-link and login-link endpoints.
type Link struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// CheckoutSession is a hosted payment page for one rent payment.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// AccountSession is an embedded-components session for a connected account.
type AccountSession struct {
	ClientSecret string `json:"client_secret"`
}

// Product is a Stripe product representing a recurring rent charge.
type Product struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

// Price is a Stripe price attached to a product.
type Price struct {
	ID         string `json:"id"`
	Product    string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// Balance is the available/pending balance of a connected account.
type Balance struct {
	Available []BalanceAmount `json:"available"`
	Pending   []BalanceAmount `json:"pending"`
}

// BalanceAmount is one currency bucket of a balance.
type BalanceAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Payout is a transfer from a connected account's balance to its bank.
type Payout struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	ArrivalDate int64  `json:"arrival_date"`
}

// BalanceTransaction is one movement of funds on a connected account.
type BalanceTransaction struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Amount   int64  `json:"amount"`
	Fee      int64  `json:"fee"`
	Net      int64  `json:"net"`
	Currency string `json:"currency"`
}

// Charge is one collected payment on a connected account.
type Charge struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Paid     bool   `json:"paid"`
}

// Event is one Stripe event, fetched for webhook debugging.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// ErrNotFound is returned when Stripe reports the requested object does not exist.
var ErrNotFound = errors.New("stripe object not found")

// CreateAccount creates an Express connected account for a landlord.
func (c *Client) CreateAccount(ctx context.Context, email string) (*Account, error) {
	form := url.Values{}
	form.Set("type", "express")
	form.Set("email", email)

	var account Account
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", form, "", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccount retrieves a connected account.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, "/v1/accounts/"+accountID, nil, "", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccountLink creates an onboarding link for a connected account.
func (c *Client) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*Link, error) {
	form := url.Values{}
	form.Set("account", accountID)
	form.Set("refresh_url", refreshURL)
	form.Set("return_url", returnURL)
	form.Set("type", "account_onboarding")

	var link Link
	if err := c.do(ctx, http.MethodPost, "/v1/account_links", form, "", &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateAccountSession creates an embedded-components session so the landlord
// dashboard can render the payments view for a connected account.
func (c *Client) CreateAccountSession(ctx context.Context, accountID string) (*AccountSession, error) {
	form := url.Values{}
	form.Set("account", accountID)
	form.Set("components[payments][enabled]", "true")

	var session AccountSession
	if err := c.do(ctx, http.MethodPost, "/v1/account_sessions", form, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateLoginLink creates an Express dashboard login link for a connected account.
func (c *Client) CreateLoginLink(ctx context.Context, accountID string) (*Link, error) {
	var link Link
	path := fmt.Sprintf("/v1/accounts/%s/login_links", accountID)
	if err := c.do(ctx, http.MethodPost, path, url.Values{}, "", &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// CheckoutParams describes one rent payment to collect.
type CheckoutParams struct {
	LeaseID     string
	PaymentID   string
	Description string
	Amount      int64 // in cents
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// CreateCheckoutSession creates a hosted checkout session for one rent payment.
// The lease and payment IDs travel in the session metadata so the webhook can
// settle the right payment.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.Description)
	form.Set("metadata[lease_id]", params.LeaseID)
	form.Set("metadata[payment_id]", params.PaymentID)

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetCheckoutSession retrieves a checkout session.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ProductParams describes a product for one lease's rent charge. The lease
// and payment IDs travel in the product metadata so the product can be found
// again without storing its Stripe ID.
type ProductParams struct {
	LeaseID    string
	PaymentID  string
	TenantName string
}

// CreateProduct creates a product for a lease's recurring rent charge.
func (c *Client) CreateProduct(ctx context.Context, params ProductParams) (*Product, error) {
	form := url.Values{}
	form.Set("name", fmt.Sprintf("Rent payment for %s", params.TenantName))
	form.Set("metadata[lease_id]", params.LeaseID)
	form.Set("metadata[payment_id]", params.PaymentID)

	var product Product
	if err := c.do(ctx, http.MethodPost, "/v1/products", form, "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProduct finds the product tagged with the given lease and payment IDs.
// Returns ErrNotFound when no product carries that metadata.
func (c *Client) GetProduct(ctx context.Context, leaseID, paymentID string) (*Product, error) {
	query := fmt.Sprintf("metadata['lease_id']:'%s' AND metadata['payment_id']:'%s'", leaseID, paymentID)
	path := "/v1/products/search?query=" + url.QueryEscape(query)

	var resp listResponse[Product]
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Data[0], nil
}

// ListProducts fetches up to limit products.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	var resp listResponse[Product]
	path := fmt.Sprintf("/v1/products?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPrices fetches up to limit prices.
func (c *Client) ListPrices(ctx context.Context, limit int) ([]Price, error) {
	var resp listResponse[Price]
	path := fmt.Sprintf("/v1/prices?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreatePrice creates a price for a product.
func (c *Client) CreatePrice(ctx context.Context, productID string, amount int64, currency string) (*Price, error) {
	form := url.Values{}
	form.Set("product", productID)
	form.Set("unit_amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)

	var price Price
	if err := c.do(ctx, http.MethodPost, "/v1/prices", form, "", &price); err != nil {
		return nil, err
	}
	return &price, nil
}

// GetBalance retrieves the balance of a connected account.
func (c *Client) GetBalance(ctx context.Context, accountID string) (*Balance, error) {
	var balance Balance
	if err := c.do(ctx, http.MethodGet, "/v1/balance", nil, accountID, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// ListPayouts fetches the recent payouts of a connected account.
func (c *Client) ListPayouts(ctx context.Context, accountID string) ([]Payout, error) {
	var resp listResponse[Payout]
	if err := c.do(ctx, http.MethodGet, "/v1/payouts", nil, accountID, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListBalanceTransactions fetches the recent balance transactions of a
// connected account.
func (c *Client) ListBalanceTransactions(ctx context.Context, accountID string) ([]BalanceTransaction, error) {
	var resp listResponse[BalanceTransaction]
	if err := c.do(ctx, http.MethodGet, "/v1/balance_transactions", nil, accountID, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListCharges fetches the recent charges of a connected account.
func (c *Client) ListCharges(ctx context.Context, accountID string) ([]Charge, error) {
	var resp listResponse[Charge]
	if err := c.do(ctx, http.MethodGet, "/v1/charges", nil, accountID, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetEvent retrieves one Stripe event by ID.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodGet, "/v1/events/"+eventID, nil, "", &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// do is a helper function to make HTTP requests to the Stripe API. A non-empty
// onBehalfOf sets the Stripe-Account header for connected-account calls.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, onBehalfOf string, target interface{}) error {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if onBehalfOf != "" {
		req.Header.Set("Stripe-Account", onBehalfOf)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stripe API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return nil
}
