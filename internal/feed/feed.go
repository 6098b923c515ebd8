// Package feed adapts the football-data.org v4 API into flat match
// records for the importer and the admin preview.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.football-data.org/v4"

// Competition codes fetched by FetchMatches, in fetch order.
var competitionCodes = []string{"PL", "PD", "SA", "BL1", "FL1", "CL"}

// cacheTTL matches the upstream's one-hour revalidate window; fixtures
// rarely change faster than that and the free tier is rate limited.
const cacheTTL = time.Hour

type (
	// Match is one fixture as the upstream API shapes it. Optional fields
	// stay zero when absent; the record is validated only for the fields
	// the importer needs.
	Match struct {
		ID          int64       `json:"id"`
		UTCDate     time.Time   `json:"utcDate"`
		Status      string      `json:"status"`
		HomeTeam    TeamRef     `json:"homeTeam"`
		AwayTeam    TeamRef     `json:"awayTeam"`
		Competition Competition `json:"competition"`
		Score       Score       `json:"score"`
	}

	TeamRef struct {
		Name  string `json:"name"`
		Crest string `json:"crest"`
	}

	Competition struct {
		Name string `json:"name"`
		Area Area   `json:"area"`
	}

	Area struct {
		Name string `json:"name"`
	}

	Score struct {
		FullTime ScorePair `json:"fullTime"`
	}

	ScorePair struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	}

	matchesResp struct {
		Matches []Match `json:"matches"`
	}
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *expirable.LRU[string, []Match]
}

// An Option configures the client, mostly so tests can point it at a
// local server.
type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: expirable.NewLRU[string, []Match](16, nil, cacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchMatches pulls fixtures for every tracked competition. A failed
// competition is logged and skipped so one flaky league doesn't empty the
// whole preview. Responses are cached per competition; the upstream
// free tier is rate limited.
func (c *Client) FetchMatches(ctx context.Context) []Match {
	var all []Match
	for _, code := range competitionCodes {
		matches, err := c.competitionMatches(ctx, code)
		if err != nil {
			slog.ErrorContext(ctx, "error fetching competition", "code", code, "err", err)
			continue
		}
		all = append(all, matches...)
	}

	return all
}

func (c *Client) competitionMatches(ctx context.Context, code string) ([]Match, error) {
	if cached, ok := c.cache.Get(code); ok {
		return cached, nil
	}

	url := fmt.Sprintf("%s/competitions/%s/matches", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %s", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching matches: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body matchesResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding matches: %w", err)
	}

	c.cache.Add(code, body.Matches)
	return body.Matches, nil
}

// Leagues returns the distinct competition names in a batch, sorted. The
// viewer's league picker starts from this full set.
func Leagues(matches []Match) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, m := range matches {
		if m.Competition.Name == "" {
			continue
		}
		if _, ok := seen[m.Competition.Name]; ok {
			continue
		}
		seen[m.Competition.Name] = struct{}{}
		names = append(names, m.Competition.Name)
	}
	sort.Strings(names)

	return names
}
