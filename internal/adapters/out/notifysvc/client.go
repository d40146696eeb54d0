// Package notifysvc is the HTTP client for the notification service's
// transactional email API.
package notifysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

const collaborator = "notification service"

// Client implements ports.Mailer over the notification service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a notification-service client. A nil httpClient falls
// back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// SendOrderStatus emails a status-change notice to the customer.
func (c *Client) SendOrderStatus(ctx context.Context, email string, status order.Status) error {
	return c.send(ctx, "order-status", map[string]string{
		"email":  email,
		"status": status.String(),
	})
}

// SendDeliveryCode emails the one-time delivery-confirmation code.
func (c *Client) SendDeliveryCode(ctx context.Context, email, code string) error {
	return c.send(ctx, "delivery-code", map[string]string{
		"email": email,
		"code":  code,
	})
}

func (c *Client) send(ctx context.Context, template string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/internal/emails/%s", c.baseURL, template)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewUpstreamFailureError(collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return errs.NewUpstreamFailureError(
			collaborator, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return nil
}
