package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrInvalidDestination is returned for a postal code that does not
	// normalize to exactly eight digits. No request is issued in that case.
	ErrInvalidDestination = errors.New("shipping: invalid destination postal code")

	// ErrRequestFailed is returned for transport, timeout, status, or decode
	// failures while talking to the rate service. It is retryable; the caller
	// keeps whatever quote it already held.
	ErrRequestFailed = errors.New("shipping: quote request failed")
)

const defaultTimeout = 10 * time.Second

// Option is one shipping method quoted by the rate service for a destination.
// Quotes are ephemeral and never persisted.
type Option struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DeliveryTime string  `json:"deliveryTime"`
}

type quoteRequest struct {
	PostalCode    string `json:"postalCode"`
	ProviderID    string `json:"providerId"`
	ProductTypeID string `json:"productTypeId"`
	Quantity      int    `json:"quantity"`
}

// Client requests shipping quotes from the external rate service. This is the
// only part of the core that performs network I/O.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient returns a Client for the rate service at baseURL, authenticating
// with a bearer token supplied by the surrounding auth layer. A nil httpc gets
// a default client with a 10s timeout.
func NewClient(baseURL, token string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, token: token, httpc: httpc}
}

// NormalizePostalCode strips every non-digit character and validates that
// exactly eight digits remain, returning the normalized code.
func NormalizePostalCode(raw string) (string, error) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) != 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDestination, raw)
	}
	return string(digits), nil
}

// Quote requests shipping options for the given destination and configured
// product. The postal code is validated before any network call. Options come
// back in the order the rate service returned them; the caller picks a
// default (usually the first).
func (c *Client) Quote(ctx context.Context, destinationPostal, providerID, productTypeID string, quantity int) ([]Option, error) {
	postal, err := NormalizePostalCode(destinationPostal)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(quoteRequest{
		PostalCode:    postal,
		ProviderID:    providerID,
		ProductTypeID: productTypeID,
		Quantity:      quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shipping/calculate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrRequestFailed, resp.StatusCode)
	}

	var options []Option
	if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}

	return options, nil
}
