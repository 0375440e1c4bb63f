package astrorepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soulsync/soulsync/internal/domain/kundali"
)

// PostgresRepository implements kundali.Repository using pgx. The astrodata
// table keys on (name, day) and stores the document payloads as jsonb.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the astrodata table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS astrodata (
			name          TEXT        NOT NULL,
			day           INT         NOT NULL,
			planets       JSONB       NOT NULL,
			chart_url     TEXT        NOT NULL,
			date          TEXT        NOT NULL,
			query_details JSONB       NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (name, day)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure astrodata schema: %w", err)
	}
	return nil
}

// Upsert inserts or overwrites the record for (name, day) and returns the
// stored row. Last writer wins.
func (r *PostgresRepository) Upsert(ctx context.Context, record kundali.AstroRecord) (kundali.AstroRecord, error) {
	planets, err := json.Marshal(record.Planets)
	if err != nil {
		return kundali.AstroRecord{}, fmt.Errorf("encode planets: %w", err)
	}
	details, err := json.Marshal(record.QueryDetails)
	if err != nil {
		return kundali.AstroRecord{}, fmt.Errorf("encode query details: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO astrodata (name, day, planets, chart_url, date, query_details, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name, day) DO UPDATE SET
			planets = EXCLUDED.planets,
			chart_url = EXCLUDED.chart_url,
			date = EXCLUDED.date,
			query_details = EXCLUDED.query_details,
			updated_at = EXCLUDED.updated_at
		RETURNING name, day, planets, chart_url, date, query_details, updated_at
	`, record.Name, record.Day, planets, record.ChartURL, record.Date, details, record.UpdatedAt)

	var (
		stored     kundali.AstroRecord
		planetsRaw []byte
		detailsRaw []byte
	)
	if err := row.Scan(&stored.Name, &stored.Day, &planetsRaw, &stored.ChartURL, &stored.Date, &detailsRaw, &stored.UpdatedAt); err != nil {
		return kundali.AstroRecord{}, fmt.Errorf("upsert astro record: %w", err)
	}
	if err := json.Unmarshal(planetsRaw, &stored.Planets); err != nil {
		return kundali.AstroRecord{}, fmt.Errorf("decode stored planets: %w", err)
	}
	if err := json.Unmarshal(detailsRaw, &stored.QueryDetails); err != nil {
		return kundali.AstroRecord{}, fmt.Errorf("decode stored query details: %w", err)
	}
	return stored, nil
}

var _ kundali.Repository = (*PostgresRepository)(nil)
