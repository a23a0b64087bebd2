package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/trendscope/trends-data-service/internal/trends"
)

// DefaultTask is the Apify actor task used when none is configured.
const DefaultTask = "petrpatek~google-trends-scraper"

// ApifyProvider fetches trending-search items per country through an Apify
// actor task. The direct trends API is blocked on many networks, which is
// why the scraper actor is used instead.
type ApifyProvider struct {
	name    string
	token   string
	task    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewApifyProvider creates the provider. An empty token is accepted here and
// rejected at fetch time, so read-only deployments can still boot.
func NewApifyProvider(client *http.Client, token, task string) *ApifyProvider {
	if task == "" {
		task = DefaultTask
	}
	return &ApifyProvider{
		name:    "apify",
		token:   token,
		task:    task,
		baseURL: "https://api.apify.com/v2",
		client:  client,
		circuit: newCircuit("apify"),
	}
}

func (p *ApifyProvider) Name() string {
	return p.name
}

// Fetch runs the actor task synchronously and returns its dataset items for
// the given country. The date is decided by the actor's "now 1-d" timeframe;
// it is accepted for the Fetcher contract but not sent to the provider.
func (p *ApifyProvider) Fetch(ctx context.Context, countryCode, date string) ([]trends.RawItem, error) {
	if p.token == "" {
		return nil, fmt.Errorf("%w: APIFY_TOKEN not set", trends.ErrProvider)
	}

	input := map[string]any{
		"searchTerms": []string{},
		"timeframe":   "now 1-d",
		"geo":         countryCode,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/actor-tasks/%s/run-sync-get-dataset-items?token=%s",
		p.baseURL, url.PathEscape(p.task), url.QueryEscape(p.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := doRequest(p.client, p.circuit, req)
	if err != nil {
		return nil, fmt.Errorf("%w: apify fetch failed: %v", trends.ErrProvider, err)
	}
	defer resp.Body.Close()

	var elements []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, fmt.Errorf("%w: apify response is not an array", trends.ErrProvider)
	}

	items := make([]trends.RawItem, 0, len(elements))
	for _, raw := range elements {
		fields := map[string]any{}
		// Non-object elements still carry their payload; extraction then
		// falls back to synthesized terms and rank scoring.
		_ = json.Unmarshal(raw, &fields)
		items = append(items, trends.RawItem{Fields: fields, Raw: raw})
	}
	return items, nil
}
