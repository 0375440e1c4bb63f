package places

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/soulsync/soulsync/pkg/errors"
)

// Service proxies free-text place queries to the autocomplete upstream.
type Service interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

// Client performs the upstream autocomplete call.
type Client interface {
	Autocomplete(ctx context.Context, query string) ([]Place, error)
}

type service struct {
	client Client
	logger *slog.Logger
}

// NewService wires up the place lookup domain.
func NewService(client Client, logger *slog.Logger) Service {
	return &service{client: client, logger: logger.With("component", "places.service")}
}

func (s *service) Search(ctx context.Context, query string) ([]Place, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "query cannot be empty", nil)
	}

	results, err := s.client.Autocomplete(ctx, trimmed)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUpstreamError, "failed to fetch places", err)
	}
	s.logger.Debug("place lookup completed", "query", trimmed, "results", len(results))
	return results, nil
}
