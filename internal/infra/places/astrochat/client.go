package astrochat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soulsync/soulsync/internal/domain/places"
)

const defaultBaseURL = "https://api.supportchat.astrotalk.com/AstroChat/cities/allcountries/autocomplete"

// Client queries the city autocomplete API.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewClient builds an autocomplete client.
func NewClient(baseURL string, limit int, timeout time.Duration) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	if limit <= 0 {
		limit = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(u, "/"),
		limit:      limit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Status string      `json:"status"`
	Data   []wirePlace `json:"data"`
}

// Upstream id values arrive as numbers or strings depending on the record.
type wirePlace struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	State       string      `json:"state"`
	CountryName string      `json:"countryName"`
}

// Autocomplete fetches place suggestions for a free-text query.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]places.Place, error) {
	endpoint := fmt.Sprintf("%s?limit=%d&key=%s", c.baseURL, c.limit, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("places request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	if raw.Status != "success" {
		return nil, fmt.Errorf("places api status %q", raw.Status)
	}

	out := make([]places.Place, 0, len(raw.Data))
	for _, p := range raw.Data {
		out = append(out, places.Place{
			ID:          p.ID.String(),
			Name:        p.Name,
			State:       p.State,
			CountryName: p.CountryName,
		})
	}
	return out, nil
}

var _ places.Client = (*Client)(nil)
