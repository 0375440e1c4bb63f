package chartstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreArchiveRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	key, err := store.Archive(context.Background(), "Test Name", "1990-01-01", "https://charts.example/abc.png")
	require.NoError(t, err)
	require.Equal(t, "charts/test-name/1990-01-01.png", key)

	url, ok := store.Stored(key)
	require.True(t, ok)
	require.Equal(t, "https://charts.example/abc.png", url)

	_, ok = store.Stored("charts/other/1990-01-01.png")
	require.False(t, ok)
}

func TestObjectKeySlugging(t *testing.T) {
	require.Equal(t, "charts/test/1990-01-01.png", objectKey("Test", "1990-01-01"))
	require.Equal(t, "charts/mary-ann-smith/2001-12-31.png", objectKey("  Mary   Ann Smith ", "2001-12-31"))
	require.Equal(t, "charts/unnamed/2001-12-31.png", objectKey("   ", "2001-12-31"))
}
