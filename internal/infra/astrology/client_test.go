package astrology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soulsync/soulsync/internal/domain/kundali"
)

func testQuery() kundali.BirthQuery {
	return kundali.BirthQuery{
		Year: 1990, Month: 1, Date: 1,
		Latitude: 10, Longitude: 20, Timezone: 5.5,
		Name: "Test",
	}
}

func TestChartURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/horoscope-chart-url", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-api-key"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body, "config")
		require.NotContains(t, body, "settings")
		require.JSONEq(t, `{"observation_point":"topocentric","ayanamsha":"lahiri"}`, string(body["config"]))

		fmt.Fprint(w, `{"statusCode":200,"output":"https://charts.example/abc.png"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	chart, err := client.ChartURL(context.Background(), testQuery())
	require.NoError(t, err)
	require.Equal(t, 200, chart.StatusCode)
	require.Equal(t, "https://charts.example/abc.png", chart.Output)
}

func TestPlanets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/planets", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-api-key"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body, "settings")
		require.NotContains(t, body, "config")

		fmt.Fprint(w, `{"statusCode":200,"output":[{"observation_point":"topocentric"},{"Sun":{"current_sign":9},"Moon":{"current_sign":3}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	planets, err := client.Planets(context.Background(), testQuery())
	require.NoError(t, err)
	require.Equal(t, 200, planets.StatusCode)
	require.Len(t, planets.Output, 2)
	require.Contains(t, planets.Output, "Sun")
	require.Contains(t, planets.Output, "Moon")
	require.NotEmpty(t, planets.Raw)
}

func TestPlanets_ShortOutputIsShapeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"statusCode":200,"output":[{"only":"one"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	_, err := client.Planets(context.Background(), testQuery())
	require.ErrorIs(t, err, kundali.ErrPlanetaryShape)
}

func TestPost_UpstreamHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	_, err := client.ChartURL(context.Background(), testQuery())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}
