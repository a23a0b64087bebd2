package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trendscope/trends-data-service/internal/common"
	"github.com/trendscope/trends-data-service/internal/countries"
	"github.com/trendscope/trends-data-service/internal/trends"
)

// schema is applied on every open; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS countries (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	region TEXT NOT NULL,
	lat REAL,
	lon REAL
);

CREATE TABLE IF NOT EXISTS terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	country_code TEXT NOT NULL,
	term TEXT NOT NULL,
	ts_date TEXT NOT NULL,
	score REAL,
	change_pct REAL,
	breakout_flag INTEGER DEFAULT 0,
	payload_json TEXT,
	UNIQUE(country_code, term, ts_date)
);

CREATE TABLE IF NOT EXISTS fetch_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	country_code TEXT NOT NULL,
	cadence TEXT NOT NULL,
	ts TEXT NOT NULL,
	status TEXT NOT NULL,
	notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_terms_country_date ON terms (country_code, ts_date);
CREATE INDEX IF NOT EXISTS idx_terms_term ON terms (term);
CREATE INDEX IF NOT EXISTS idx_fetch_log_ts ON fetch_log (ts);
`

const upsertTermSQL = `
INSERT INTO terms (country_code, term, ts_date, score, change_pct, breakout_flag, payload_json)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(country_code, term, ts_date) DO UPDATE SET
	score=excluded.score,
	change_pct=excluded.change_pct,
	breakout_flag=excluded.breakout_flag,
	payload_json=excluded.payload_json
`

const prevScoreSQL = `
SELECT score FROM terms
WHERE country_code = ? AND term = ? AND ts_date < ?
ORDER BY ts_date DESC
LIMIT 1
`

// LogEntry is one row of the append-only fetch audit trail.
type LogEntry struct {
	CountryCode string
	Cadence     string
	Timestamp   string
	Status      string
	Notes       string
}

// SQLiteStore persists observations and the fetch log in a single-file
// SQLite database under the configured data directory.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database, applies the
// schema and seeds the country catalog.
func NewSQLiteStore(dataDir string, catalog []countries.Country) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := filepath.Join(dataDir, "trends.db") + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one pooled connection serializes
	// concurrent country batches without busy errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.seedCountries(catalog); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed countries: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) seedCountries(catalog []countries.Country) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO countries (code, name, region, lat, lon) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range catalog {
		if _, err := stmt.Exec(c.Code, c.Name, c.Region, c.Lat, c.Lon); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpsertTerms writes one country's batch for one date in a single
// transaction. For each term the most recent earlier observation drives the
// day-over-day change; re-running the same batch replaces rows in place.
func (s *SQLiteStore) UpsertTerms(ctx context.Context, countryCode, date string, items []trends.ScoredTerm) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	prevStmt, err := tx.PrepareContext(ctx, prevScoreSQL)
	if err != nil {
		return err
	}
	defer prevStmt.Close()

	upsertStmt, err := tx.PrepareContext(ctx, upsertTermSQL)
	if err != nil {
		return err
	}
	defer upsertStmt.Close()

	for _, item := range items {
		var prev sql.NullFloat64
		err := prevStmt.QueryRowContext(ctx, countryCode, item.Term, date).Scan(&prev)
		if err != nil && err != sql.ErrNoRows {
			return err
		}

		change := changePct(item.Score, prev)

		breakout := 0
		if item.Breakout {
			breakout = 1
		}

		if _, err := upsertStmt.ExecContext(ctx, countryCode, item.Term, date,
			item.Score, change, breakout, string(item.Payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// changePct computes the day-over-day delta against the most recent earlier
// score. NULL when no earlier observation exists. A prior score of exactly 0
// uses denominator 1; the delta stays defined instead of blowing up.
func changePct(score float64, prev sql.NullFloat64) *float64 {
	if !prev.Valid {
		return nil
	}
	denom := prev.Float64
	if denom == 0 {
		denom = 1
	}
	change := (score - prev.Float64) / denom * 100
	return &change
}

// AppendLog records one fetch attempt. It never fails the caller; a storage
// error here must not turn a successful ingestion into a failed one.
func (s *SQLiteStore) AppendLog(ctx context.Context, countryCode, cadence, status, notes string) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetch_log (country_code, cadence, ts, status, notes) VALUES (?, ?, ?, ?, ?)`,
		countryCode, cadence, time.Now().UTC().Format(time.RFC3339), status, notes)
	if err != nil {
		log.Printf("store: append fetch log for %s failed: %v", countryCode, err)
	}
}

// FetchLog returns the newest audit entries for a country.
func (s *SQLiteStore) FetchLog(ctx context.Context, countryCode string, limit int) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT country_code, cadence, ts, status, COALESCE(notes, '') FROM fetch_log
		 WHERE country_code = ? ORDER BY ts DESC LIMIT ?`, countryCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.CountryCode, &e.Cadence, &e.Timestamp, &e.Status, &e.Notes); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TrendsByCountry ranks a country's terms over the trailing window by
// average score. The window boundary day is included. Equal averages are
// ordered by term so results are deterministic.
func (s *SQLiteStore) TrendsByCountry(ctx context.Context, q trends.CountryQuery) ([]trends.CountryTrend, error) {
	cutoff := common.DaysAgoStr(clampWindow(q.WindowDays))

	query := `
		SELECT term, AVG(score) AS avg_score, MAX(breakout_flag) AS breakout_flag, COUNT(*) AS points
		FROM terms
		WHERE country_code = ? AND ts_date >= ?`
	args := []any{q.Country, cutoff}
	if q.BreakoutOnly {
		// Row-level filter before grouping: a term's non-breakout days do
		// not contribute to its average.
		query += ` AND breakout_flag = 1`
	}
	query += `
		GROUP BY term
		ORDER BY avg_score DESC, term ASC
		LIMIT ?`
	args = append(args, q.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []trends.CountryTrend
	for rows.Next() {
		var row trends.CountryTrend
		var breakout int
		if err := rows.Scan(&row.Term, &row.Score, &breakout, &row.Points); err != nil {
			return nil, err
		}
		row.BreakoutFlag = breakout != 0
		result = append(result, row)
	}
	return result, rows.Err()
}

// TopByRegion ranks terms across every country in a region over the
// trailing window, collecting the distinct contributing country codes.
func (s *SQLiteStore) TopByRegion(ctx context.Context, q trends.RegionQuery) ([]trends.RegionTrend, error) {
	cutoff := common.DaysAgoStr(clampWindow(q.WindowDays))

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.term, AVG(t.score) AS avg_score, MAX(t.breakout_flag) AS breakout_flag,
		       GROUP_CONCAT(DISTINCT t.country_code) AS codes
		FROM terms t
		JOIN countries c ON c.code = t.country_code
		WHERE c.region = ? AND t.ts_date >= ?
		GROUP BY t.term
		ORDER BY avg_score DESC, t.term ASC
		LIMIT ?`, q.Region, cutoff, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []trends.RegionTrend
	for rows.Next() {
		var row trends.RegionTrend
		var breakout int
		var codes string
		if err := rows.Scan(&row.Term, &row.Score, &breakout, &codes); err != nil {
			return nil, err
		}
		row.BreakoutFlag = breakout != 0
		row.Countries = strings.Split(codes, ",")
		sort.Strings(row.Countries)
		result = append(result, row)
	}
	return result, rows.Err()
}

// RecentTerms returns a country's latest stored observations, newest first.
func (s *SQLiteStore) RecentTerms(ctx context.Context, countryCode string, limit int) ([]trends.RecentTerm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT term, score, ts_date, change_pct, breakout_flag
		FROM terms
		WHERE country_code = ?
		ORDER BY ts_date DESC
		LIMIT ?`, countryCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []trends.RecentTerm
	for rows.Next() {
		var row trends.RecentTerm
		var change sql.NullFloat64
		var breakout int
		if err := rows.Scan(&row.Term, &row.Score, &row.Date, &change, &breakout); err != nil {
			return nil, err
		}
		if change.Valid {
			v := change.Float64
			row.ChangePct = &v
		}
		row.BreakoutFlag = breakout != 0
		result = append(result, row)
	}
	return result, rows.Err()
}

func clampWindow(days int) int {
	if days < 1 {
		return 1
	}
	return days
}
