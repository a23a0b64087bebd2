package trends

import (
	"context"
	"errors"
)

// ErrProvider marks failures of the external trends provider: non-success
// status, a response that is not a sequence of items, or missing credentials.
// The orchestrator contains these at single-country granularity.
var ErrProvider = errors.New("trends provider error")

// Fetcher retrieves raw trend items for one country for one date.
// Implementations make exactly one attempt per call; retry policy, if any,
// belongs to the caller.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, countryCode, date string) ([]RawItem, error)
}

// Store is the contract the persistence layer must satisfy.
type Store interface {
	// UpsertTerms writes one country's batch for one date as a single
	// transaction. Re-running it with the same inputs is a no-op update,
	// never a duplicate.
	UpsertTerms(ctx context.Context, countryCode, date string, items []ScoredTerm) error

	// AppendLog records a fetch attempt in the audit trail. It never fails;
	// storage errors are logged and swallowed.
	AppendLog(ctx context.Context, countryCode, cadence, status, notes string)

	TrendsByCountry(ctx context.Context, q CountryQuery) ([]CountryTrend, error)
	TopByRegion(ctx context.Context, q RegionQuery) ([]RegionTrend, error)
	RecentTerms(ctx context.Context, countryCode string, limit int) ([]RecentTerm, error)
}
