/**
 * @description
 * This package provides the SMS notification channel, backed by the Twilio
 * Messages API. Requests are form-encoded with basic auth, Twilio's wire
 * format, and failures are reported as DeliveryError.
 */
package twilioclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/williamphan99/resera-template/internal/domain"
)

// Client is a client for the Twilio Messages API.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
}

// NewClient creates a new Twilio client sending from the given phone number.
func NewClient(baseURL, accountSID, authToken, from string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendMessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// SendReminderSMS sends the due-soon notice and returns the message SID.
func (c *Client) SendReminderSMS(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	body := fmt.Sprintf("Hi %s, your rent for %s is due on %s. Pay here: %s",
		notice.TenantName, notice.PropertyAddress,
		notice.DueDate.Format("Jan 2"), notice.PaymentLinkURL)
	return c.send(ctx, notice.TenantPhone, body)
}

// SendOverdueSMS sends the overdue notice and returns the message SID.
func (c *Client) SendOverdueSMS(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	body := fmt.Sprintf("Hi %s, your rent for %s was due on %s and is overdue. Pay here: %s",
		notice.TenantName, notice.PropertyAddress,
		notice.DueDate.Format("Jan 2"), notice.PaymentLinkURL)
	return c.send(ctx, notice.TenantPhone, body)
}

// SendWelcomeSMS greets a tenant when their lease is created.
func (c *Client) SendWelcomeSMS(ctx context.Context, notice domain.PaymentNotice) (string, error) {
	body := fmt.Sprintf("Hi %s, welcome to %s! Your first rent payment is due on %s. Pay here: %s",
		notice.TenantName, notice.PropertyAddress,
		notice.DueDate.Format("Jan 2"), notice.PaymentLinkURL)
	return c.send(ctx, notice.TenantPhone, body)
}

// SendMessage sends an arbitrary message to a phone number and returns the
// message SID.
func (c *Client) SendMessage(ctx context.Context, to, body string) (string, error) {
	return c.send(ctx, to, body)
}

// send posts one SMS and returns the message SID.
func (c *Client) send(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &domain.DeliveryError{Channel: "sms", Provider: "twilio", Err: err}
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.DeliveryError{Channel: "sms", Provider: "twilio", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.DeliveryError{
			Channel:  "sms",
			Provider: "twilio",
			Err:      fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody)),
		}
	}

	var result sendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &domain.DeliveryError{Channel: "sms", Provider: "twilio", Err: err}
	}
	if result.Status == "failed" || result.Status == "undelivered" {
		return "", &domain.DeliveryError{
			Channel:  "sms",
			Provider: "twilio",
			Err:      fmt.Errorf("message %s %s: %s", result.SID, result.Status, result.ErrorMessage),
		}
	}
	return result.SID, nil
}
