package trends

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/trendscope/trends-data-service/internal/countries"
	"github.com/trendscope/trends-data-service/internal/metrics"
)

// maxInFlight caps simultaneous country jobs. The bound exists to stay
// within the external provider's rate tolerance, not for local resources.
const maxInFlight = 2

// Service orchestrates per-country ingestion and fronts the read queries.
type Service struct {
	store   Store
	fetcher Fetcher
	catalog []countries.Country
}

// NewService creates a Service over the given store, fetch client and
// country catalog.
func NewService(store Store, fetcher Fetcher, catalog []countries.Country) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
		catalog: catalog,
	}
}

// RunIngest runs one ingestion pass over the whole catalog with at most
// maxInFlight country jobs in flight. A failure in one country's job is
// logged and reported in its summary; it never affects the other jobs.
// The returned run ID ties log lines and the response together.
func (s *Service) RunIngest(ctx context.Context, date, cadence string) (string, []CountrySummary) {
	runID := uuid.NewString()
	log.Printf("ingest %s: starting run over %d countries (date=%s cadence=%s)", runID, len(s.catalog), date, cadence)

	summaries := make([]CountrySummary, len(s.catalog))

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for i, c := range s.catalog {
		i, c := i, c
		g.Go(func() error {
			summaries[i] = s.ingestCountry(ctx, c.Code, date, cadence)
			return nil
		})
	}
	// Jobs report failures through their summaries, never as errors.
	_ = g.Wait()

	metrics.IngestRuns.Inc()

	failed := 0
	for _, sum := range summaries {
		if sum.Error != "" {
			failed++
		}
	}
	log.Printf("ingest %s: run complete, %d ok, %d failed", runID, len(summaries)-failed, failed)
	return runID, summaries
}

// ingestCountry runs the fetch -> normalize -> persist -> log sequence for
// one country. The log entry is written whatever the outcome.
func (s *Service) ingestCountry(ctx context.Context, countryCode, date, cadence string) CountrySummary {
	start := time.Now()

	summary, err := func() (CountrySummary, error) {
		items, err := s.fetcher.Fetch(ctx, countryCode, date)
		if err != nil {
			return CountrySummary{}, err
		}

		scored := make([]ScoredTerm, 0, len(items))
		for rank, item := range items {
			scored = append(scored, Normalize(item, rank))
		}

		if err := s.store.UpsertTerms(ctx, countryCode, date, scored); err != nil {
			return CountrySummary{}, err
		}
		return CountrySummary{
			Country: countryCode,
			Count:   len(scored),
			Ms:      time.Since(start).Milliseconds(),
		}, nil
	}()

	metrics.CountryJobDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		log.Printf("ingest: %s failed: %v", countryCode, err)
		s.store.AppendLog(ctx, countryCode, cadence, "error", err.Error())
		metrics.CountryJobs.WithLabelValues("error").Inc()
		return CountrySummary{Country: countryCode, Error: err.Error()}
	}

	s.store.AppendLog(ctx, countryCode, cadence, "ok", "")
	metrics.CountryJobs.WithLabelValues("ok").Inc()
	return summary
}

// TrendsByCountry delegates to the underlying store.
func (s *Service) TrendsByCountry(ctx context.Context, q CountryQuery) ([]CountryTrend, error) {
	return s.store.TrendsByCountry(ctx, q)
}

// TopByRegion delegates to the underlying store.
func (s *Service) TopByRegion(ctx context.Context, q RegionQuery) ([]RegionTrend, error) {
	return s.store.TopByRegion(ctx, q)
}

// RecentTerms delegates to the underlying store.
func (s *Service) RecentTerms(ctx context.Context, countryCode string, limit int) ([]RecentTerm, error) {
	return s.store.RecentTerms(ctx, countryCode, limit)
}
