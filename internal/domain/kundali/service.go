package kundali

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/soulsync/soulsync/pkg/errors"
)

// Service orchestrates chart generation: normalize, fetch, persist, interpret.
type Service interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// AstrologyClient performs the two upstream computation calls.
type AstrologyClient interface {
	ChartURL(ctx context.Context, q BirthQuery) (ChartResult, error)
	Planets(ctx context.Context, q BirthQuery) (PlanetaryResult, error)
}

// Repository upserts astro records keyed by (name, day).
type Repository interface {
	Upsert(ctx context.Context, record AstroRecord) (AstroRecord, error)
}

// Interpreter turns a planetary payload into guidance text.
type Interpreter interface {
	Interpret(ctx context.Context, planetaryPayload string) (Interpretation, error)
}

// ChartArchive stores a durable copy of the chart image. Optional.
type ChartArchive interface {
	Archive(ctx context.Context, name, date, chartURL string) (string, error)
}

// Config tunes the orchestration.
type Config struct {
	// FetchTimeout bounds the chart and planets calls together; they gate
	// the same response, so they share one budget.
	FetchTimeout time.Duration
	// InterpretTimeout bounds the whole model degrade chain.
	InterpretTimeout time.Duration
	// DefaultTimezone applies when the request carries none.
	DefaultTimezone float64
}

type service struct {
	cfg         Config
	astro       AstrologyClient
	repo        Repository
	interpreter Interpreter
	archive     ChartArchive
	logger      *slog.Logger
	now         func() time.Time
}

// NewService wires up the chart generation domain. archive may be nil.
func NewService(cfg Config, astro AstrologyClient, repo Repository, interpreter Interpreter, archive ChartArchive, logger *slog.Logger) Service {
	return &service{
		cfg:         cfg,
		astro:       astro,
		repo:        repo,
		interpreter: interpreter,
		archive:     archive,
		logger:      logger.With("component", "kundali.service"),
		now:         time.Now,
	}
}

func (s *service) Generate(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Name) == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}

	query := s.normalize(req)

	chart, planets, err := s.fetchBoth(ctx, query)
	if err != nil {
		if errors.Is(err, ErrPlanetaryShape) {
			return Response{}, apperrors.Wrap(apperrors.CodeUpstreamStatus, "failed to generate the chart or retrieve planetary data", err)
		}
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, "failed to reach the astrology api", err)
	}
	if chart.StatusCode != 200 || len(planets.Output) == 0 {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamStatus, "failed to generate the chart or retrieve planetary data", nil)
	}

	record := AstroRecord{
		Name:      query.Name,
		Day:       query.Date,
		Planets:   planets.Output,
		ChartURL:  chart.Output,
		Date:      query.DateString(),
		UpdatedAt: s.now().UTC(),
		QueryDetails: QueryDetails{
			BirthQuery:    query,
			OriginalMonth: req.Month,
		},
	}
	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeDBError, "failed to store astro record", err)
	}
	s.logger.Info("astro record upserted", "name", stored.Name, "day", stored.Day, "date", stored.Date)

	archivedKey := s.archiveChart(ctx, query, chart.Output)

	interpretCtx, cancel := context.WithTimeout(ctx, s.cfg.InterpretTimeout)
	defer cancel()
	interp, err := s.interpreter.Interpret(interpretCtx, string(planets.Raw))
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeLLMError, "failed to generate interpretation", err)
	}

	resp := Response{
		ChartURL:         chart.Output,
		ArchivedChartKey: archivedKey,
		Success:          true,
		DBResponse:       stored,
		GeneratedContent: interp.Content,
		Model:            interp.Model,
	}
	if !interp.Usage.IsZero() {
		usage := interp.Usage
		resp.Usage = &usage
	}
	return resp, nil
}

func (s *service) normalize(req Request) BirthQuery {
	timezone := s.cfg.DefaultTimezone
	if req.Timezone != nil {
		timezone = float64(*req.Timezone)
	}
	return BirthQuery{
		Year:      int(req.Year),
		Month:     MonthNumber(req.Month),
		Date:      int(req.Date),
		Hours:     int(req.Hours),
		Minutes:   int(req.Minutes),
		Seconds:   int(req.Seconds),
		Latitude:  float64(req.Latitude),
		Longitude: float64(req.Longitude),
		Timezone:  timezone,
		Name:      req.Name,
	}
}

// fetchBoth runs the chart and planets calls concurrently under one combined
// deadline. Either failure fails the pair; there is no partial success.
func (s *service) fetchBoth(ctx context.Context, query BirthQuery) (ChartResult, PlanetaryResult, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	var (
		chart   ChartResult
		planets PlanetaryResult
	)
	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		var err error
		chart, err = s.astro.ChartURL(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		planets, err = s.astro.Planets(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return ChartResult{}, PlanetaryResult{}, err
	}
	return chart, planets, nil
}

// archiveChart is best effort: a failed archive never fails the request.
func (s *service) archiveChart(ctx context.Context, query BirthQuery, chartURL string) string {
	if s.archive == nil || chartURL == "" {
		return ""
	}
	key, err := s.archive.Archive(ctx, query.Name, query.DateString(), chartURL)
	if err != nil {
		s.logger.Warn("chart archive failed", "name", query.Name, "error", err)
		return ""
	}
	return key
}
