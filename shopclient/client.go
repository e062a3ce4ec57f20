// Package shopclient is the storefront's API client: catalog fetches with
// fallback normalization, and the collector endpoint location shared with
// the analytics dispatcher.
package shopclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"shopfront/api/models"
)

// Client talks to the shopfront API server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// CollectorURL returns the event collector endpoint for this server.
func (c *Client) CollectorURL() string {
	return c.baseURL + "/api/post-event"
}

// merchResponse matches the wrapped response shape of newer backend
// revisions: { "responseData": [...] }.
type merchResponse struct {
	ResponseData []models.RawMerch `json:"responseData"`
}

// FetchMerch retrieves the catalog. Both known backend response shapes are
// accepted: the wrapped {responseData: [...]} object and a bare array.
// Every record is normalized so missing fields never block rendering;
// transport and decode failures are returned to the caller, which surfaces
// them as a user-visible error state.
func (c *Client) FetchMerch(ctx context.Context) ([]models.MerchItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/get-merch", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merchandise: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch merchandise: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	raw, err := decodeMerch(body)
	if err != nil {
		return nil, err
	}

	items := make([]models.MerchItem, 0, len(raw))
	for i, r := range raw {
		items = append(items, r.Normalize(i))
	}
	return items, nil
}

func decodeMerch(body []byte) ([]models.RawMerch, error) {
	var wrapped merchResponse
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.ResponseData != nil {
		return wrapped.ResponseData, nil
	}

	// Older backend revisions returned the array unwrapped.
	var bare []models.RawMerch
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("invalid catalog data format")
}
