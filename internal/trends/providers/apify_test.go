package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/trends-data-service/internal/trends"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *ApifyProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewApifyProvider(NewHTTPClient(5*time.Second), "test-token", "")
	p.baseURL = srv.URL
	return p
}

func TestFetchMissingTokenIsProviderError(t *testing.T) {
	p := NewApifyProvider(NewHTTPClient(time.Second), "", "")
	_, err := p.Fetch(context.Background(), "US", "2026-08-30")
	require.Error(t, err)
	assert.ErrorIs(t, err, trends.ErrProvider)
}

func TestFetchNonSuccessStatusIsProviderError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := p.Fetch(context.Background(), "US", "2026-08-30")
	require.Error(t, err)
	assert.ErrorIs(t, err, trends.ErrProvider)
}

func TestFetchNonArrayBodyIsProviderError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"nope"}`))
	})

	_, err := p.Fetch(context.Background(), "US", "2026-08-30")
	require.Error(t, err)
	assert.ErrorIs(t, err, trends.ErrProvider)
}

func TestFetchSendsGeoAndMapsItems(t *testing.T) {
	var gotBody map[string]any
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`[
			{"title":[{"query":"go"}],"formattedTraffic":"100k+"},
			{"query":"tea"},
			"not-an-object"
		]`))
	})

	items, err := p.Fetch(context.Background(), "GB", "2026-08-30")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "GB", gotBody["geo"])
	assert.Equal(t, "now 1-d", gotBody["timeframe"])

	// Decoded fields drive extraction; the raw payload survives untouched.
	assert.Contains(t, items[0].Fields, "formattedTraffic")
	assert.Equal(t, "tea", items[1].Fields["query"])
	assert.Empty(t, items[2].Fields)
	assert.JSONEq(t, `{"title":[{"query":"go"}],"formattedTraffic":"100k+"}`, string(items[0].Raw))
}
