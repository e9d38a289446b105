/**
 * @description
 * This package provides the email notification channel, backed by the Resend
 * API. It renders the reminder, overdue, payment-link and welcome messages
 * from a payment notice and reports transport or provider failures as
 * DeliveryError so callers can treat the channel as independently fallible.
 */
package resendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/williamphan99/resera-template/internal/domain"
)

// Client is a client for the Resend email API.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewClient creates a new Resend API client sending from the given address.
func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// SendReminderEmail sends the due-soon notice and returns the provider's email ID.
func (c *Client) SendReminderEmail(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	subject := "Upcoming rent payment reminder"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your rent of %s for %s is due on %s.</p><p><a href=%q>Pay now</a></p>",
		notice.TenantName, formatCents(notice.AmountDue), notice.PropertyAddress,
		notice.DueDate.Format("January 2, 2006"), notice.PaymentLinkURL)
	return c.send(ctx, notice.TenantEmail, subject, html)
}

// SendOverdueEmail sends the overdue notice and returns the provider's email ID.
func (c *Client) SendOverdueEmail(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	subject := "Overdue rent payment"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your rent of %s for %s was due on %s and is now overdue.</p><p><a href=%q>Pay now</a></p>",
		notice.TenantName, formatCents(notice.AmountDue), notice.PropertyAddress,
		notice.DueDate.Format("January 2, 2006"), notice.PaymentLinkURL)
	return c.send(ctx, notice.TenantEmail, subject, html)
}

// SendPaymentLinkEmail sends a tenant their payment link on request.
func (c *Client) SendPaymentLinkEmail(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	subject := "Your rent payment link"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>You can pay your rent for %s here: <a href=%q>Pay now</a></p>",
		notice.TenantName, notice.PropertyAddress, notice.PaymentLinkURL)
	return c.send(ctx, notice.TenantEmail, subject, html)
}

// SendWelcomeEmail greets a tenant when their lease is created.
func (c *Client) SendWelcomeEmail(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	subject := "Welcome to your new home"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to %s! Your rent of %s is due on the same day each month, starting %s.</p><p><a href=%q>Pay now</a></p>",
		notice.TenantName, notice.PropertyAddress, formatCents(notice.AmountDue),
		notice.DueDate.Format("January 2, 2006"), notice.PaymentLinkURL)
	return c.send(ctx, notice.TenantEmail, subject, html)
}

// SendDemoEmail confirms a product-demo request to the address that asked for one.
func (c *Client) SendDemoEmail(ctx context.Context, email string) (string, error) {
	subject := "Your demo request"
	html := fmt.Sprintf(
		"<p>Hi,</p><p>Thanks for requesting a demo. We received your request at %s and will be in touch shortly.</p>",
		email)
	return c.send(ctx, email, subject, html)
}

// send posts one email and returns the provider's message ID.
func (c *Client) send(ctx context.Context, to, subject, html string) (string, error) {
	payload := sendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &domain.DeliveryError{Channel: "email", Provider: "resend", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewBuffer(body))
	if err != nil {
		return "", &domain.DeliveryError{Channel: "email", Provider: "resend", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.DeliveryError{Channel: "email", Provider: "resend", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.DeliveryError{
			Channel:  "email",
			Provider: "resend",
			Err:      fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody)),
		}
	}

	var result sendEmailResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &domain.DeliveryError{Channel: "email", Provider: "resend", Err: err}
	}
	return result.ID, nil
}

// formatCents renders a cent amount as a dollar string, e.g. 125000 -> "$1250.00".
func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
