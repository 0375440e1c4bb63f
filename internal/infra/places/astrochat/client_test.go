package astrochat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAutocompleteParsesResults(t *testing.T) {
	var gotQuery, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("key")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": [
				{"id": 12345, "name": "Bengaluru", "state": "Karnataka", "countryName": "India"},
				{"id": "67890", "name": "Bengtsfors", "state": "", "countryName": "Sweden"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 10, 5*time.Second)
	results, err := client.Autocomplete(context.Background(), "Beng aluru")
	require.NoError(t, err)

	require.Equal(t, "Beng aluru", gotQuery)
	require.Equal(t, "10", gotLimit)
	require.Len(t, results, 2)
	require.Equal(t, "12345", results[0].ID)
	require.Equal(t, "Bengaluru", results[0].Name)
	require.Equal(t, "Karnataka", results[0].State)
	require.Equal(t, "India", results[0].CountryName)
	require.Equal(t, "67890", results[1].ID)
}

func TestAutocompleteNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "failure", "data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 10, 5*time.Second)
	_, err := client.Autocomplete(context.Background(), "anything")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failure")
}

func TestAutocompleteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 10, 5*time.Second)
	_, err := client.Autocomplete(context.Background(), "anything")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
}

func TestAutocompleteEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success", "data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 10, 5*time.Second)
	results, err := client.Autocomplete(context.Background(), "zzzz")
	require.NoError(t, err)
	require.Empty(t, results)
}
