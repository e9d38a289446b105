package stripeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/accounts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_123" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if typ := r.PostForm.Get("type"); typ != "express" {
			t.Errorf("expected account type express, got %q", typ)
		}
		if email := r.PostForm.Get("email"); email != "jamie@example.com" {
			t.Errorf("unexpected email %q", email)
		}
		json.NewEncoder(w).Encode(Account{ID: "acct_123", Email: "jamie@example.com"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	account, err := client.CreateAccount(context.Background(), "jamie@example.com")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if account.ID != "acct_123" {
		t.Errorf("expected account acct_123, got %q", account.ID)
	}
}

func TestCreateCheckoutSession_CarriesMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("metadata[lease_id]"); got != "lease-1" {
			t.Errorf("unexpected lease metadata %q", got)
		}
		if got := r.PostForm.Get("metadata[payment_id]"); got != "payment-1" {
			t.Errorf("unexpected payment metadata %q", got)
		}
		if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "180000" {
			t.Errorf("unexpected amount %q", got)
		}
		json.NewEncoder(w).Encode(CheckoutSession{ID: "cs_test_abc", URL: "https://checkout.stripe.com/c/cs_test_abc", Status: "open"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		LeaseID:     "lease-1",
		PaymentID:   "payment-1",
		Description: "Rent for 1 Example St",
		Amount:      180000,
		Currency:    "aud",
		SuccessURL:  "https://resera.example.com/success",
		CancelURL:   "https://resera.example.com/cancel",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession returned error: %v", err)
	}
	if session.ID != "cs_test_abc" {
		t.Errorf("expected session cs_test_abc, got %q", session.ID)
	}
}

func TestGetBalance_SetsConnectedAccountHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Stripe-Account"); got != "acct_123" {
			t.Errorf("expected Stripe-Account header acct_123, got %q", got)
		}
		json.NewEncoder(w).Encode(Balance{Available: []BalanceAmount{{Amount: 50000, Currency: "aud"}}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	balance, err := client.GetBalance(context.Background(), "acct_123")
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if len(balance.Available) != 1 || balance.Available[0].Amount != 50000 {
		t.Errorf("unexpected balance: %+v", balance)
	}
}

func TestCreateAccountSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/account_sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("account"); got != "acct_123" {
			t.Errorf("unexpected account %q", got)
		}
		if got := r.PostForm.Get("components[payments][enabled]"); got != "true" {
			t.Errorf("expected the payments component enabled, got %q", got)
		}
		json.NewEncoder(w).Encode(AccountSession{ClientSecret: "accs_secret_xyz"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	session, err := client.CreateAccountSession(context.Background(), "acct_123")
	if err != nil {
		t.Fatalf("CreateAccountSession returned error: %v", err)
	}
	if session.ClientSecret != "accs_secret_xyz" {
		t.Errorf("unexpected client secret %q", session.ClientSecret)
	}
}

func TestCreateProduct_TagsLeaseAndPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("metadata[lease_id]"); got != "lease-1" {
			t.Errorf("unexpected lease metadata %q", got)
		}
		if got := r.PostForm.Get("metadata[payment_id]"); got != "payment-1" {
			t.Errorf("unexpected payment metadata %q", got)
		}
		json.NewEncoder(w).Encode(Product{ID: "prod_123", Name: "Rent payment for Alice"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	product, err := client.CreateProduct(context.Background(), ProductParams{
		LeaseID:    "lease-1",
		PaymentID:  "payment-1",
		TenantName: "Alice",
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if product.ID != "prod_123" {
		t.Errorf("expected product prod_123, got %q", product.ID)
	}
}

func TestGetProduct_NotFoundWhenSearchIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/products/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if query := r.URL.Query().Get("query"); query == "" {
			t.Error("expected a search query")
		}
		json.NewEncoder(w).Encode(listResponse[Product]{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	if _, err := client.GetProduct(context.Background(), "lease-1", "payment-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPayouts_SetsConnectedAccountHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payouts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Stripe-Account"); got != "acct_123" {
			t.Errorf("expected Stripe-Account header acct_123, got %q", got)
		}
		json.NewEncoder(w).Encode(listResponse[Payout]{Data: []Payout{{ID: "po_1", Amount: 185000, Currency: "aud"}}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	payouts, err := client.ListPayouts(context.Background(), "acct_123")
	if err != nil {
		t.Fatalf("ListPayouts returned error: %v", err)
	}
	if len(payouts) != 1 || payouts[0].ID != "po_1" {
		t.Errorf("unexpected payouts: %+v", payouts)
	}
}

func TestDo_SurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Missing required param"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	if _, err := client.GetAccount(context.Background(), "acct_bad"); err == nil {
		t.Fatal("expected an error on a non-2xx response")
	}
}

func TestDo_MapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"No such event"}}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")
	if _, err := client.GetEvent(context.Background(), "evt_missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
