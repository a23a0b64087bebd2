package trends

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/trends-data-service/internal/countries"
)

type stubFetcher struct {
	fn func(ctx context.Context, countryCode, date string) ([]RawItem, error)
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(ctx context.Context, countryCode, date string) ([]RawItem, error) {
	return f.fn(ctx, countryCode, date)
}

type logCall struct {
	country, cadence, status, notes string
}

// recordingStore captures writes so orchestration behavior can be asserted
// without a database.
type recordingStore struct {
	mu        sync.Mutex
	upserts   map[string][]ScoredTerm
	logs      []logCall
	upsertErr map[string]error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		upserts:   make(map[string][]ScoredTerm),
		upsertErr: make(map[string]error),
	}
}

func (s *recordingStore) UpsertTerms(ctx context.Context, countryCode, date string, items []ScoredTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.upsertErr[countryCode]; err != nil {
		return err
	}
	s.upserts[countryCode] = append([]ScoredTerm(nil), items...)
	return nil
}

func (s *recordingStore) AppendLog(ctx context.Context, countryCode, cadence, status, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, logCall{countryCode, cadence, status, notes})
}

func (s *recordingStore) TrendsByCountry(ctx context.Context, q CountryQuery) ([]CountryTrend, error) {
	return nil, nil
}

func (s *recordingStore) TopByRegion(ctx context.Context, q RegionQuery) ([]RegionTrend, error) {
	return nil, nil
}

func (s *recordingStore) RecentTerms(ctx context.Context, countryCode string, limit int) ([]RecentTerm, error) {
	return nil, nil
}

func (s *recordingStore) logByCountry(code string) (logCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.logs {
		if l.country == code {
			return l, true
		}
	}
	return logCall{}, false
}

func catalogOf(codes ...string) []countries.Country {
	cat := make([]countries.Country, 0, len(codes))
	for _, code := range codes {
		cat = append(cat, countries.Country{Code: code})
	}
	return cat
}

func TestRunIngestFailureIsolation(t *testing.T) {
	st := newRecordingStore()
	fetcher := &stubFetcher{fn: func(ctx context.Context, code, date string) ([]RawItem, error) {
		if code == "FR" {
			return nil, errors.New("boom")
		}
		return []RawItem{
			{Fields: map[string]any{"query": "alpha", "traffic": "100k"}},
			{Fields: map[string]any{"query": "beta"}},
		}, nil
	}}

	svc := NewService(st, fetcher, catalogOf("FR", "DE"))
	runID, summaries := svc.RunIngest(context.Background(), "2026-08-30", "daily")

	require.NotEmpty(t, runID)
	require.Len(t, summaries, 2)

	// Summaries are positional: one per catalog entry.
	assert.Equal(t, "FR", summaries[0].Country)
	assert.NotEmpty(t, summaries[0].Error)
	assert.Equal(t, "DE", summaries[1].Country)
	assert.Empty(t, summaries[1].Error)
	assert.Equal(t, 2, summaries[1].Count)

	// FR's failure must not keep DE's observations out of the store.
	assert.NotContains(t, st.upserts, "FR")
	require.Contains(t, st.upserts, "DE")
	assert.Equal(t, "alpha", st.upserts["DE"][0].Term)

	frLog, ok := st.logByCountry("FR")
	require.True(t, ok)
	assert.Equal(t, "error", frLog.status)
	assert.Contains(t, frLog.notes, "boom")

	deLog, ok := st.logByCountry("DE")
	require.True(t, ok)
	assert.Equal(t, "ok", deLog.status)
	assert.Equal(t, "daily", deLog.cadence)
}

func TestRunIngestUpsertFailureIsContained(t *testing.T) {
	st := newRecordingStore()
	st.upsertErr["US"] = errors.New("disk full")
	fetcher := &stubFetcher{fn: func(ctx context.Context, code, date string) ([]RawItem, error) {
		return []RawItem{{Fields: map[string]any{"query": "x"}}}, nil
	}}

	svc := NewService(st, fetcher, catalogOf("US", "CA"))
	_, summaries := svc.RunIngest(context.Background(), "2026-08-30", "manual")

	assert.Contains(t, summaries[0].Error, "disk full")
	assert.Empty(t, summaries[1].Error)

	usLog, ok := st.logByCountry("US")
	require.True(t, ok)
	assert.Equal(t, "error", usLog.status)
}

func TestRunIngestConcurrencyBound(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	fetcher := &stubFetcher{fn: func(ctx context.Context, code, date string) ([]RawItem, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil, nil
	}}

	svc := NewService(newRecordingStore(), fetcher, catalogOf("US", "CA", "MX", "FR", "DE", "GB"))
	_, summaries := svc.RunIngest(context.Background(), "2026-08-30", "manual")

	require.Len(t, summaries, 6)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2, "more than 2 country jobs in flight")
	assert.Greater(t, peak, 0)
}

func TestRunIngestNormalizesByRank(t *testing.T) {
	st := newRecordingStore()
	fetcher := &stubFetcher{fn: func(ctx context.Context, code, date string) ([]RawItem, error) {
		return []RawItem{
			{Fields: map[string]any{}},
			{Fields: map[string]any{}},
		}, nil
	}}

	svc := NewService(st, fetcher, catalogOf("JP"))
	svc.RunIngest(context.Background(), "2026-08-30", "manual")

	require.Len(t, st.upserts["JP"], 2)
	assert.Equal(t, "item-0", st.upserts["JP"][0].Term)
	assert.Equal(t, 100.0, st.upserts["JP"][0].Score)
	assert.Equal(t, "item-1", st.upserts["JP"][1].Term)
	assert.Equal(t, 99.0, st.upserts["JP"][1].Score)
}
