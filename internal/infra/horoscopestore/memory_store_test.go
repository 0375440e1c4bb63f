package horoscopestore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/zodiac"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	payload := json.RawMessage(`{"personal":"a good day"}`)

	require.NoError(t, store.Save(ctx, zodiac.Leo, horoscope.VariantToday, "2026-09-01", payload, time.Hour))

	got, ok, err := store.Get(ctx, zodiac.Leo, horoscope.VariantToday, "2026-09-01")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, string(payload), string(got))
}

func TestMemoryStoreMissOnDifferentKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	payload := json.RawMessage(`{"personal":"x"}`)
	require.NoError(t, store.Save(ctx, zodiac.Leo, horoscope.VariantToday, "2026-09-01", payload, time.Hour))

	_, ok, err := store.Get(ctx, zodiac.Leo, horoscope.VariantTomorrow, "2026-09-01")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.Get(ctx, zodiac.Virgo, horoscope.VariantToday, "2026-09-01")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	payload := json.RawMessage(`{"personal":"x"}`)
	require.NoError(t, store.Save(ctx, zodiac.Leo, horoscope.VariantToday, "2026-09-01", payload, time.Nanosecond))

	time.Sleep(5 * time.Millisecond)
	_, ok, err := store.Get(ctx, zodiac.Leo, horoscope.VariantToday, "2026-09-01")
	require.NoError(t, err)
	require.False(t, ok)
}
