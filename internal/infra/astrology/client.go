package astrology

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soulsync/soulsync/internal/domain/kundali"
)

const defaultBaseURL = "https://json.freeastrologyapi.com"

// Fixed sidereal computation parameters shared by both endpoints.
const (
	observationPoint = "topocentric"
	ayanamsha        = "lahiri"
)

// planetaryOutputIndex selects the planet mapping inside the upstream output
// array; the contract is positional.
const planetaryOutputIndex = 1

// Client calls the chart-url and planets computation endpoints with a shared
// API key header.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an astrology API client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(u, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type computationSettings struct {
	ObservationPoint string `json:"observation_point"`
	Ayanamsha        string `json:"ayanamsha"`
}

// requestBody wraps the normalized query. The two endpoints expect the same
// settings under different keys: "config" for charts, "settings" for planets.
type requestBody struct {
	kundali.BirthQuery
	Config   *computationSettings `json:"config,omitempty"`
	Settings *computationSettings `json:"settings,omitempty"`
}

func settings() *computationSettings {
	return &computationSettings{ObservationPoint: observationPoint, Ayanamsha: ayanamsha}
}

// ChartURL requests the chart image URL for a birth query.
func (c *Client) ChartURL(ctx context.Context, q kundali.BirthQuery) (kundali.ChartResult, error) {
	body, err := c.post(ctx, "/horoscope-chart-url", requestBody{BirthQuery: q, Config: settings()})
	if err != nil {
		return kundali.ChartResult{}, err
	}

	var out struct {
		StatusCode int    `json:"statusCode"`
		Output     string `json:"output"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return kundali.ChartResult{}, fmt.Errorf("decode chart response: %w", err)
	}
	return kundali.ChartResult{StatusCode: out.StatusCode, Output: out.Output}, nil
}

// Planets requests planetary positions for a birth query. The planet mapping
// lives at a fixed index of the output array; a shorter array is reported as
// kundali.ErrPlanetaryShape rather than silently yielding nothing.
func (c *Client) Planets(ctx context.Context, q kundali.BirthQuery) (kundali.PlanetaryResult, error) {
	body, err := c.post(ctx, "/planets", requestBody{BirthQuery: q, Settings: settings()})
	if err != nil {
		return kundali.PlanetaryResult{}, err
	}

	var out struct {
		StatusCode int                          `json:"statusCode"`
		Output     []map[string]json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return kundali.PlanetaryResult{}, fmt.Errorf("decode planets response: %w", err)
	}
	if len(out.Output) <= planetaryOutputIndex {
		return kundali.PlanetaryResult{}, fmt.Errorf("planets output has %d elements: %w", len(out.Output), kundali.ErrPlanetaryShape)
	}
	return kundali.PlanetaryResult{
		StatusCode: out.StatusCode,
		Output:     out.Output[planetaryOutputIndex],
		Raw:        body,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload requestBody) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode astrology request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build astrology request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("astrology request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("astrology request error: status=%d path=%s body=%s", resp.StatusCode, path, string(preview))
	}

	return io.ReadAll(resp.Body)
}

var _ kundali.AstrologyClient = (*Client)(nil)
