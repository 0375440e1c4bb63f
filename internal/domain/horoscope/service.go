package horoscope

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/soulsync/soulsync/internal/domain/zodiac"
	apperrors "github.com/soulsync/soulsync/pkg/errors"
)

// Service resolves a zodiac sign from a date of birth and reads its horoscope.
type Service interface {
	Read(ctx context.Context, dateOfBirth, variant string) (Result, error)
}

// Fetcher scrapes one horoscope page. The returned value is *Daily or
// *Monthly depending on the variant.
type Fetcher interface {
	Fetch(ctx context.Context, sign zodiac.Sign, variant Variant) (any, error)
}

// Config tunes the horoscope domain.
type Config struct {
	CacheTTL time.Duration
}

type service struct {
	cfg     Config
	fetcher Fetcher
	store   Store
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the horoscope domain.
func NewService(cfg Config, fetcher Fetcher, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		logger:  logger.With("component", "horoscope.service"),
		now:     time.Now,
	}
}

func (s *service) Read(ctx context.Context, dateOfBirth, variant string) (Result, error) {
	dob, err := parseDateOfBirth(dateOfBirth)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "dateOfBirth must be an ISO date", err)
	}
	v, err := ParseVariant(variant)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "type must be today, tomorrow or monthly", err)
	}

	sign := zodiac.ResolveDate(dob)
	day := s.now().UTC().Format("2006-01-02")

	if cached, ok, err := s.store.Get(ctx, sign, v, day); err != nil {
		s.logger.Warn("horoscope cache read failed", "sign", sign, "variant", v, "error", err)
	} else if ok {
		return Result{ZodiacSign: sign, Horoscope: cached}, nil
	}

	content, err := s.fetcher.Fetch(ctx, sign, v)
	if err != nil {
		if errors.Is(err, ErrUnparseable) {
			return Result{}, apperrors.Wrap(apperrors.CodeUnparseable, "failed to parse horoscope page", err)
		}
		return Result{}, apperrors.Wrap(apperrors.CodeUpstreamError, "failed to fetch horoscope", err)
	}

	if payload, err := json.Marshal(content); err == nil {
		if err := s.store.Save(ctx, sign, v, day, payload, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("horoscope cache write failed", "sign", sign, "variant", v, "error", err)
		}
	}

	return Result{ZodiacSign: sign, Horoscope: content}, nil
}

func parseDateOfBirth(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, trimmed)
}
