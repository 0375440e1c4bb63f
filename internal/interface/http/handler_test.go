package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/kundali"
	"github.com/soulsync/soulsync/internal/domain/places"
	"github.com/soulsync/soulsync/internal/domain/zodiac"
	"github.com/soulsync/soulsync/internal/infra/config"
	apperrors "github.com/soulsync/soulsync/pkg/errors"
)

type stubPlaces struct {
	results []places.Place
	err     error
	calls   int
}

func (s *stubPlaces) Search(ctx context.Context, query string) ([]places.Place, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type stubHoroscope struct {
	result horoscope.Result
	err    error
}

func (s *stubHoroscope) Read(ctx context.Context, dateOfBirth, variant string) (horoscope.Result, error) {
	if s.err != nil {
		return horoscope.Result{}, s.err
	}
	return s.result, nil
}

type stubKundali struct {
	resp  kundali.Response
	err   error
	got   kundali.Request
	calls int
}

func (s *stubKundali) Generate(ctx context.Context, req kundali.Request) (kundali.Response, error) {
	s.calls++
	s.got = req
	if s.err != nil {
		return kundali.Response{}, s.err
	}
	return s.resp, nil
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func newTestServer(cfg *config.Config, p places.Service, h horoscope.Service, k kundali.Service) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	handler := NewHandler(p, h, k, logger)
	return NewRouter(cfg, handler, logger).Handler
}

func TestPlacesMissingQuery(t *testing.T) {
	srv := newTestServer(testConfig(), &stubPlaces{}, &stubHoroscope{}, &stubKundali{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/places", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"invalid_request"`)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPlacesSuccess(t *testing.T) {
	svc := &stubPlaces{results: []places.Place{{ID: "1", Name: "Pune", State: "Maharashtra", CountryName: "India"}}}
	srv := newTestServer(testConfig(), svc, &stubHoroscope{}, &stubKundali{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/places?query=Pune", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"places":[{"id":"1","name":"Pune","state":"Maharashtra","countryName":"India"}]}`, rec.Body.String())
}

func TestHoroscopeMissingParams(t *testing.T) {
	srv := newTestServer(testConfig(), &stubPlaces{}, &stubHoroscope{}, &stubKundali{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/horoscope?dateOfBirth=1990-08-05", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "missing dateOfBirth or type parameter")
}

func TestHoroscopeSuccess(t *testing.T) {
	svc := &stubHoroscope{result: horoscope.Result{
		ZodiacSign: zodiac.Leo,
		Horoscope:  &horoscope.Daily{Personal: "a good day"},
	}}
	srv := newTestServer(testConfig(), &stubPlaces{}, svc, &stubKundali{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/horoscope?dateOfBirth=1990-08-05&type=today", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"zodiacSign":"leo"`)
	require.Contains(t, rec.Body.String(), `"personal":"a good day"`)
}

func TestGenerateChartBindsStringNumbers(t *testing.T) {
	svc := &stubKundali{resp: kundali.Response{Success: true, ChartURL: "https://charts.example/x.png"}}
	srv := newTestServer(testConfig(), &stubPlaces{}, &stubHoroscope{}, svc)

	body := `{"year":"1990","month":"Aug","date":"5","hours":"10","minutes":"30","seconds":"0",` +
		`"latitude":"12.97","longitude":"77.59","timezone":"5.5","name":"Test"}`
	req := httptest.NewRequest(http.MethodPost, "/getImage", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1990, int(svc.got.Year))
	require.Equal(t, "Aug", svc.got.Month)
	require.NotNil(t, svc.got.Timezone)
	require.Equal(t, 5.5, float64(*svc.got.Timezone))
	require.Contains(t, rec.Body.String(), `"success":true`)
}

func TestGenerateChartMalformedBody(t *testing.T) {
	srv := newTestServer(testConfig(), &stubPlaces{}, &stubHoroscope{}, &stubKundali{})

	req := httptest.NewRequest(http.MethodPost, "/getImage", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid request body")
	require.NotContains(t, rec.Body.String(), "EOF")
}

func TestErrorBodiesHideInternalDetail(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.7:443: connect: connection refused (host=scraper.internal)")
	svc := &stubHoroscope{err: apperrors.Wrap(apperrors.CodeUpstreamError, "failed to fetch horoscope", cause)}
	srv := newTestServer(testConfig(), &stubPlaces{}, svc, &stubKundali{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/horoscope?dateOfBirth=1990-08-05&type=today", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "failed to fetch horoscope")
	require.NotContains(t, rec.Body.String(), "dial tcp")
	require.NotContains(t, rec.Body.String(), "scraper.internal")
}

func TestGenerateChartUpstreamStatusIsBadRequest(t *testing.T) {
	svc := &stubKundali{err: apperrors.Wrap(apperrors.CodeUpstreamStatus, "failed to generate the chart or retrieve planetary data", nil)}
	srv := newTestServer(testConfig(), &stubPlaces{}, &stubHoroscope{}, svc)

	req := httptest.NewRequest(http.MethodPost, "/getImage", strings.NewReader(`{"name":"Test"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"upstream_status"`)
	require.Contains(t, rec.Body.String(), "failed to generate the chart or retrieve planetary data")
}

func TestGenerateChartDBFailureIsInternal(t *testing.T) {
	svc := &stubKundali{err: apperrors.Wrap(apperrors.CodeDBError, "failed to store astro record", nil)}
	srv := newTestServer(testConfig(), &stubPlaces{}, &stubHoroscope{}, svc)

	req := httptest.NewRequest(http.MethodPost, "/getImage", strings.NewReader(`{"name":"Test"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"chart_failed"`)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.AllowedOrigins = []string{"https://app.example.com"}
	srv := newTestServer(cfg, &stubPlaces{}, &stubHoroscope{}, &stubKundali{})

	req := httptest.NewRequest(http.MethodOptions, "/places", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	svc := &stubPlaces{results: []places.Place{}}
	srv := newTestServer(cfg, svc, &stubHoroscope{}, &stubKundali{})

	first := httptest.NewRecorder()
	srv.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/places?query=Pune", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	srv.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/places?query=Pune", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Contains(t, second.Body.String(), `"rate_limit_exceeded"`)
}

func TestRetryReplaysFailedGET(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 2, BaseBackoff: time.Millisecond}

	svc := &flakyPlaces{failures: 1}
	srv := newTestServer(cfg, svc, &stubHoroscope{}, &stubKundali{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/places?query=Pune", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, svc.calls)
}

func TestRetryNeverReplaysPOST(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond, Exclude: []string{"/getImage"}}

	svc := &stubKundali{err: apperrors.Wrap(apperrors.CodeDBError, "failed to store astro record", nil)}
	srv := newTestServer(cfg, &stubPlaces{}, &stubHoroscope{}, svc)

	req := httptest.NewRequest(http.MethodPost, "/getImage", strings.NewReader(`{"name":"Test"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, svc.calls)
}

type flakyPlaces struct {
	failures int
	calls    int
}

func (s *flakyPlaces) Search(ctx context.Context, query string) ([]places.Place, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, apperrors.Wrap(apperrors.CodeUpstreamError, "transient upstream failure", nil)
	}
	return []places.Place{{ID: "1", Name: "Pune"}}, nil
}
