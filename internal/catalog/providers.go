package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type providerPayload struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CommissionRate float64 `json:"commissionRate"`
	ShippingTime   string  `json:"shippingTime"`
}

// FetchProviders retrieves the current fulfillment provider list from the
// backend (GET /providers, bearer auth). The caller decides whether a failure
// is fatal; typically the stored provider list is kept and the error logged.
func FetchProviders(ctx context.Context, httpc *http.Client, baseURL, token string) ([]Provider, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/providers", nil)
	if err != nil {
		return nil, fmt.Errorf("build providers request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch providers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch providers: unexpected status %d", resp.StatusCode)
	}

	var payload []providerPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode providers response: %w", err)
	}

	providers := make([]Provider, 0, len(payload))
	for _, p := range payload {
		providers = append(providers, Provider{
			ID:             p.ID,
			Name:           p.Name,
			CommissionRate: p.CommissionRate,
			ShippingTime:   p.ShippingTime,
		})
	}

	return providers, nil
}
