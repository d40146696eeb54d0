// Package authsvc is the HTTP client for the auth service, which owns user
// profiles, courier positions, the geospatial nearby index, and the one-time
// delivery codes.
package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

const collaborator = "auth service"

// Client implements ports.NearbyCouriers, ports.UserDirectory, and
// ports.OtpStore over the auth service's internal API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth-service client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type courierResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone string  `json:"phone"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Find returns available couriers within radiusMeters of the center.
func (c *Client) Find(
	ctx context.Context, center kernel.GeoPoint, radiusMeters int,
) ([]ports.CourierCandidate, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(center.Latitude(), 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(center.Longitude(), 'f', -1, 64))
	query.Set("radius", strconv.Itoa(radiusMeters))

	endpoint := fmt.Sprintf("%s/internal/couriers/nearby?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create nearby request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewUpstreamFailureError(collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewUpstreamFailureError(
			collaborator, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body []courierResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.NewUpstreamFailureError(collaborator, err)
	}

	candidates := make([]ports.CourierCandidate, 0, len(body))
	for _, courier := range body {
		candidate, candidateErr := toCandidate(courier)
		if candidateErr != nil {
			return nil, errs.NewUpstreamFailureError(collaborator, candidateErr)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func toCandidate(courier courierResponse) (ports.CourierCandidate, error) {
	id, err := kernel.UUIDFromString(courier.ID)
	if err != nil {
		return ports.CourierCandidate{}, err
	}
	location, err := kernel.NewGeoPoint(courier.Lat, courier.Lon)
	if err != nil {
		return ports.CourierCandidate{}, err
	}

	return ports.CourierCandidate{
		ID:       id,
		Name:     courier.Name,
		Email:    courier.Email,
		Phone:    courier.Phone,
		Location: location,
	}, nil
}

type userResponse struct {
	Email string   `json:"email"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
}

// GetEmail returns the user's email address.
func (c *Client) GetEmail(ctx context.Context, userID kernel.UUID) (string, error) {
	user, err := c.getUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Email == "" {
		return "", errs.NewObjectNotFoundError("user email", userID.String())
	}
	return user.Email, nil
}

// GetLocation returns the user's last reported coordinate.
func (c *Client) GetLocation(ctx context.Context, userID kernel.UUID) (kernel.GeoPoint, error) {
	user, err := c.getUser(ctx, userID)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	if user.Lat == nil || user.Lon == nil {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("user location", userID.String())
	}
	return kernel.NewGeoPoint(*user.Lat, *user.Lon)
}

func (c *Client) getUser(ctx context.Context, userID kernel.UUID) (userResponse, error) {
	endpoint := fmt.Sprintf("%s/internal/users/%s", c.baseURL, userID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return userResponse{}, fmt.Errorf("create user request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return userResponse{}, errs.NewUpstreamFailureError(collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return userResponse{}, errs.NewObjectNotFoundError("user", userID.String())
	}
	if resp.StatusCode != http.StatusOK {
		return userResponse{}, errs.NewUpstreamFailureError(
			collaborator, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body userResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return userResponse{}, errs.NewUpstreamFailureError(collaborator, err)
	}

	return body, nil
}

// Set stores a one-time delivery code for the user, replacing any prior code.
func (c *Client) Set(ctx context.Context, userID kernel.UUID, code string, ttl time.Duration) error {
	payload, err := json.Marshal(map[string]any{
		"code":       code,
		"ttlSeconds": int(ttl.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("marshal otp request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/internal/users/%s/otp", c.baseURL, userID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create otp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewUpstreamFailureError(collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errs.NewUpstreamFailureError(
			collaborator, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return nil
}

// Verify checks a submitted delivery code. A wrong or expired code returns
// false with no error; an error means the store was unreachable.
func (c *Client) Verify(ctx context.Context, userID kernel.UUID, code string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return false, fmt.Errorf("marshal otp verification: %w", err)
	}

	endpoint := fmt.Sprintf("%s/internal/users/%s/otp/verify", c.baseURL, userID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("create otp verification: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errs.NewUpstreamFailureError(collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, errs.NewUpstreamFailureError(
			collaborator, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body struct {
		Valid bool `json:"valid"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, errs.NewUpstreamFailureError(collaborator, err)
	}

	return body.Valid, nil
}
