package astrorepo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soulsync/soulsync/internal/domain/kundali"
)

func TestMemoryRepository_UpsertOverwrites(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := kundali.AstroRecord{
		Name:    "Test",
		Day:     1,
		Planets: map[string]json.RawMessage{"Sun": json.RawMessage(`{"current_sign":9}`)},
		Date:    "1990-01-01",
	}
	second := first
	second.Planets = map[string]json.RawMessage{"Sun": json.RawMessage(`{"current_sign":10}`)}

	_, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, second)
	require.NoError(t, err)

	require.Equal(t, 1, repo.Count())
	stored, ok := repo.Get("Test", 1)
	require.True(t, ok)
	require.JSONEq(t, `{"current_sign":10}`, string(stored.Planets["Sun"]))
}

func TestMemoryRepository_DistinctKeysDoNotCollide(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Upsert(ctx, kundali.AstroRecord{Name: "Test", Day: 1})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, kundali.AstroRecord{Name: "Test", Day: 2})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, kundali.AstroRecord{Name: "Other", Day: 1})
	require.NoError(t, err)

	require.Equal(t, 3, repo.Count())
}
