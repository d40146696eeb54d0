// Package shopsvc is the HTTP client for the shop service. It resolves shop
// identity at checkout and records item ratings against the catalog.
package shopsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

const collaborator = "shop service"

// Client implements ports.ShopLookup and ports.ItemCatalog over the shop
// service's internal API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a shop-service client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type shopResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
}

// Get resolves a shop by id.
func (c *Client) Get(ctx context.Context, shopID kernel.UUID) (ports.Shop, error) {
	url := fmt.Sprintf("%s/internal/shops/%s", c.baseURL, shopID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.Shop{}, fmt.Errorf("create shop request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.Shop{}, errs.NewUpstreamFailureError(collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ports.Shop{}, errs.NewObjectNotFoundError("shop", shopID.String())
	}
	if resp.StatusCode != http.StatusOK {
		return ports.Shop{}, errs.NewUpstreamFailureError(
			collaborator, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body shopResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.Shop{}, errs.NewUpstreamFailureError(collaborator, err)
	}

	id, err := kernel.UUIDFromString(body.ID)
	if err != nil {
		return ports.Shop{}, errs.NewUpstreamFailureError(collaborator, err)
	}
	ownerID, err := kernel.UUIDFromString(body.OwnerID)
	if err != nil {
		return ports.Shop{}, errs.NewUpstreamFailureError(collaborator, err)
	}

	return ports.Shop{ID: id, OwnerID: ownerID, Name: body.Name}, nil
}

// RecordRating submits one customer rating for a catalog item.
func (c *Client) RecordRating(ctx context.Context, itemID kernel.UUID, rating int) error {
	payload, err := json.Marshal(map[string]int{"rating": rating})
	if err != nil {
		return fmt.Errorf("marshal rating request: %w", err)
	}

	url := fmt.Sprintf("%s/internal/items/%s/ratings", c.baseURL, itemID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create rating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewUpstreamFailureError(collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errs.NewObjectNotFoundError("item", itemID.String())
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errs.NewUpstreamFailureError(
			collaborator, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return nil
}
