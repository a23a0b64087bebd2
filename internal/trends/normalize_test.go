package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func item(fields map[string]any) RawItem {
	return RawItem{Fields: fields}
}

func TestNormalizeBreakoutFloor(t *testing.T) {
	got := Normalize(item(map[string]any{
		"title":            "solar eclipse",
		"formattedTraffic": "Breakout",
	}), 5)

	assert.Equal(t, "solar eclipse", got.Term)
	assert.Equal(t, float64(BreakoutScore), got.Score)
	assert.True(t, got.Breakout)
}

func TestNormalizeRankFallback(t *testing.T) {
	got := Normalize(item(map[string]any{}), 3)

	assert.Equal(t, "item-3", got.Term)
	assert.Equal(t, 97.0, got.Score)
	assert.False(t, got.Breakout)
}

func TestNormalizeRankFallbackNeverNegative(t *testing.T) {
	got := Normalize(item(map[string]any{}), 150)
	assert.Equal(t, 0.0, got.Score)
}

func TestNormalizeSuffixMultipliers(t *testing.T) {
	cases := map[string]float64{
		"200k+":    200_000,
		"1.5m":     1_500_000,
		"2,000+":   2_000,
		"50":       50,
		"100K+":    100_000, // case-insensitive suffix
		"20m+ das": 20_000_000,
	}
	for traffic, want := range cases {
		got := Normalize(item(map[string]any{"traffic": traffic}), 0)
		assert.Equal(t, want, got.Score, "traffic %q", traffic)
		assert.False(t, got.Breakout, "traffic %q", traffic)
	}
}

func TestNormalizeUnparsableTrafficFallsBackToRank(t *testing.T) {
	got := Normalize(item(map[string]any{"traffic": "hot right now"}), 2)
	assert.Equal(t, 98.0, got.Score)
}

func TestNormalizeNumericTrafficValue(t *testing.T) {
	got := Normalize(item(map[string]any{"value": float64(250)}), 0)
	assert.Equal(t, 250.0, got.Score)
}

func TestNormalizeTermPriority(t *testing.T) {
	nested := map[string]any{
		"title": []any{map[string]any{"query": "nested term"}},
		"query": "flat query",
	}
	assert.Equal(t, "nested term", Normalize(item(nested), 0).Term)

	flatTitle := map[string]any{"title": "title term", "query": "flat query"}
	assert.Equal(t, "title term", Normalize(item(flatTitle), 0).Term)

	assert.Equal(t, "flat query", Normalize(item(map[string]any{"query": "flat query", "keyword": "kw"}), 0).Term)
	assert.Equal(t, "kw", Normalize(item(map[string]any{"keyword": "kw", "term": "t"}), 0).Term)
	assert.Equal(t, "t", Normalize(item(map[string]any{"term": "t"}), 0).Term)
}

func TestNormalizeMalformedNestedTitle(t *testing.T) {
	// A nested title without a query string falls through to the flat
	// candidates instead of failing.
	fields := map[string]any{
		"title": []any{map[string]any{"exploreLink": "/trends"}},
		"query": "fallback",
	}
	assert.Equal(t, "fallback", Normalize(item(fields), 0).Term)
}
