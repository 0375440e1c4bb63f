package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/soulsync/soulsync/internal/infra/config"
)

// withRetry transparently retries idempotent GET requests that fail with a
// 5xx. POST /getImage writes to the database and spends LLM quota, so it is
// excluded by configuration and by the method check.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	exclusions := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		exclusions[path] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := exclusions[r.URL.Path]; skip || r.Method != http.MethodGet {
			handler.ServeHTTP(w, r)
			return
		}

		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			if attempt > 1 {
				delay := cfg.BaseBackoff * time.Duration(1<<(attempt-2))
				if delay > 0 {
					time.Sleep(delay)
				}
			}

			recorder := newRetryResponseRecorder(w)
			handler.ServeHTTP(recorder, r.Clone(r.Context()))
			if !recorder.retryable() || attempt == cfg.MaxAttempts {
				recorder.Commit()
				return
			}

			logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", recorder.statusCode, "attempt", attempt)
		}
	})
}

// retryResponseRecorder buffers a handler's response so a failed attempt can
// be discarded and replayed.
type retryResponseRecorder struct {
	target     http.ResponseWriter
	statusCode int
	header     http.Header
	body       []byte
}

func newRetryResponseRecorder(target http.ResponseWriter) *retryResponseRecorder {
	return &retryResponseRecorder{
		target:     target,
		statusCode: http.StatusOK,
		header:     make(http.Header),
	}
}

func (r *retryResponseRecorder) Header() http.Header {
	return r.header
}

func (r *retryResponseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
}

func (r *retryResponseRecorder) Write(data []byte) (int, error) {
	r.body = append(r.body, data...)
	return len(data), nil
}

func (r *retryResponseRecorder) retryable() bool {
	return r.statusCode >= http.StatusInternalServerError
}

// Commit flushes the buffered response to the real writer.
func (r *retryResponseRecorder) Commit() {
	dst := r.target.Header()
	for key, values := range r.header {
		dst[key] = values
	}
	r.target.WriteHeader(r.statusCode)
	if len(r.body) > 0 {
		_, _ = r.target.Write(r.body)
	}
}
