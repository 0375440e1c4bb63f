package kundali_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soulsync/soulsync/internal/domain/kundali"
	"github.com/soulsync/soulsync/internal/infra/astrology"
	"github.com/soulsync/soulsync/internal/infra/astrorepo"
	"github.com/soulsync/soulsync/internal/infra/chartstore"
)

type fakeInterpreter struct{}

func (fakeInterpreter) Interpret(ctx context.Context, planetaryPayload string) (kundali.Interpretation, error) {
	return kundali.Interpretation{Content: "wear a ruby on tuesdays", Model: "fake-model"}, nil
}

// End-to-end pass through the real astrology client against a fake upstream,
// the memory repository and a fake interpreter.
func TestGenerateScenarioAgainstFakeUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(1990), body["year"])
		require.Equal(t, float64(1), body["month"])
		require.Equal(t, float64(5.5), body["timezone"])

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/horoscope-chart-url":
			_, _ = w.Write([]byte(`{"statusCode":200,"output":"https://charts.example/abc.svg"}`))
		case "/planets":
			_, _ = w.Write([]byte(`{"statusCode":200,"output":[{"observation_point":"topocentric"},{"Sun":{"current_sign":9},"Moon":{"current_sign":2}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	repo := astrorepo.NewMemoryRepository()
	archive := chartstore.NewMemoryStore()
	svc := kundali.NewService(
		kundali.Config{FetchTimeout: 5 * time.Second, InterpretTimeout: 5 * time.Second, DefaultTimezone: 5.5},
		astrology.NewClient(upstream.URL, "test-key", 5*time.Second),
		repo,
		fakeInterpreter{},
		archive,
		slog.New(slog.DiscardHandler),
	)

	req := kundali.Request{
		Year:      1990,
		Month:     "Jan",
		Date:      1,
		Hours:     10,
		Minutes:   30,
		Latitude:  12.97,
		Longitude: 77.59,
		Name:      "Test",
	}
	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	require.True(t, resp.Success)
	require.Equal(t, "https://charts.example/abc.svg", resp.ChartURL)
	require.Equal(t, "wear a ruby on tuesdays", resp.GeneratedContent)
	require.Equal(t, "charts/test/1990-01-01.png", resp.ArchivedChartKey)
	archivedURL, ok := archive.Stored(resp.ArchivedChartKey)
	require.True(t, ok)
	require.Equal(t, resp.ChartURL, archivedURL)

	require.Equal(t, 1, repo.Count())
	record, ok := repo.Get("Test", 1)
	require.True(t, ok)
	require.Equal(t, "1990-01-01", record.Date)
	require.Contains(t, record.Planets, "Sun")
	require.Contains(t, record.Planets, "Moon")
	require.Equal(t, record, resp.DBResponse)

	// A second submit overwrites the same key instead of adding a row.
	_, err = svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, repo.Count())
}
