package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	name    string
	status  string
	kickoff time.Time
	home    string
	away    string
	league  string
}

func (f fixture) fields() Fields {
	return Fields{
		Status:  f.status,
		Kickoff: f.kickoff,
		Date:    f.kickoff.UTC().Format("2006-01-02"),
		Home:    f.home,
		Away:    f.away,
		League:  f.league,
	}
}

func apply(items []fixture, opts Options, now time.Time) Grouped[fixture] {
	return Apply(items, fixture.fields, opts, now)
}

func flat(g Grouped[fixture]) []string {
	var names []string
	for _, d := range g.Dates {
		for _, f := range g.ByDate[d] {
			names = append(names, f.name)
		}
	}
	return names
}

var now = time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC)

func TestStatusFilter(t *testing.T) {
	items := []fixture{
		{name: "up", status: "upcoming", kickoff: now},
		{name: "live", status: "live", kickoff: now},
		{name: "inplay", status: "IN_PLAY", kickoff: now},
		{name: "fin", status: "finished", kickoff: now},
		{name: "completed", status: "completed", kickoff: now},
	}

	tests := []struct {
		status string
		want   []string
	}{
		{"all", []string{"up", "live", "inplay", "fin", "completed"}},
		{"", []string{"up", "live", "inplay", "fin", "completed"}},
		{"upcoming", []string{"up"}},
		{"live", []string{"live", "inplay"}},
		{"finished", []string{"fin", "completed"}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := apply(items, Options{Status: tt.status}, now)
			assert.Equal(t, tt.want, flat(got))
		})
	}
}

func TestDateRanges(t *testing.T) {
	items := []fixture{
		{name: "today-early", kickoff: time.Date(2025, 5, 10, 0, 1, 0, 0, time.UTC)},
		{name: "today-late", kickoff: time.Date(2025, 5, 10, 23, 59, 0, 0, time.UTC)},
		{name: "tomorrow", kickoff: time.Date(2025, 5, 11, 12, 0, 0, 0, time.UTC)},
		{name: "in-six-days", kickoff: time.Date(2025, 5, 16, 12, 0, 0, 0, time.UTC)},
		{name: "in-seven-days", kickoff: time.Date(2025, 5, 17, 12, 0, 0, 0, time.UTC)},
		{name: "in-thirteen-days", kickoff: time.Date(2025, 5, 23, 12, 0, 0, 0, time.UTC)},
		{name: "in-fourteen-days", kickoff: time.Date(2025, 5, 24, 12, 0, 0, 0, time.UTC)},
		{name: "yesterday", kickoff: time.Date(2025, 5, 9, 12, 0, 0, 0, time.UTC)},
	}

	tests := []struct {
		dateRange string
		want      []string
	}{
		{"today", []string{"today-early", "today-late"}},
		{"tomorrow", []string{"tomorrow"}},
		{"week", []string{"today-early", "today-late", "tomorrow", "in-six-days"}},
		{"nextWeek", []string{"in-seven-days", "in-thirteen-days"}},
		{"all", []string{"today-early", "today-late", "tomorrow", "in-six-days", "in-seven-days", "in-thirteen-days", "in-fourteen-days", "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.dateRange, func(t *testing.T) {
			got := apply(items, Options{DateRange: tt.dateRange}, now)
			assert.Equal(t, tt.want, flat(got))
		})
	}
}

func TestCustomRange_InclusiveEnd(t *testing.T) {
	items := []fixture{
		{name: "before", kickoff: time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC)},
		{name: "first", kickoff: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{name: "mid", kickoff: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)},
		{name: "last", kickoff: time.Date(2024, 5, 3, 23, 0, 0, 0, time.UTC)},
		{name: "after", kickoff: time.Date(2024, 5, 4, 0, 30, 0, 0, time.UTC)},
	}

	got := apply(items, Options{
		DateRange: "custom",
		Start:     "2024-05-01",
		End:       "2024-05-03",
	}, now)
	assert.Equal(t, []string{"first", "mid", "last"}, flat(got))
}

func TestCustomRange_MissingBoundPassesEverything(t *testing.T) {
	items := []fixture{
		{name: "a", kickoff: time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC)},
		{name: "b", kickoff: time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)},
	}

	got := apply(items, Options{DateRange: "custom", Start: "2024-05-01"}, now)
	assert.Equal(t, []string{"a", "b"}, flat(got))
}

func TestLeagueFilter(t *testing.T) {
	items := []fixture{
		{name: "pl", kickoff: now, league: "Premier League"},
		{name: "laliga", kickoff: now, league: "La Liga"},
	}

	t.Run("nil means unconfigured", func(t *testing.T) {
		got := apply(items, Options{}, now)
		assert.Equal(t, []string{"pl", "laliga"}, flat(got))
	})

	t.Run("empty set selects nothing", func(t *testing.T) {
		got := apply(items, Options{Leagues: []string{}}, now)
		assert.Empty(t, flat(got))
	})

	t.Run("subset", func(t *testing.T) {
		got := apply(items, Options{Leagues: []string{"La Liga"}}, now)
		assert.Equal(t, []string{"laliga"}, flat(got))
	})
}

func TestSearch(t *testing.T) {
	items := []fixture{
		{name: "arsenal", kickoff: now, home: "Arsenal", away: "Chelsea", league: "Premier League"},
		{name: "madrid", kickoff: now, home: "Real Madrid", away: "Barcelona", league: "La Liga"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"arsen", []string{"arsenal"}},
		{"CHELSEA", []string{"arsenal"}},
		{"liga", []string{"madrid"}},
		{"premier", []string{"arsenal"}},
		{"", []string{"arsenal", "madrid"}},
		{"juventus", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := apply(items, Options{Search: tt.query}, now)
			assert.Equal(t, tt.want, flat(got))
		})
	}
}

func TestGrouping_PreservesFirstSeenDateOrder(t *testing.T) {
	items := []fixture{
		{name: "a", kickoff: time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)},
		{name: "b", kickoff: time.Date(2025, 5, 11, 12, 0, 0, 0, time.UTC)},
		{name: "c", kickoff: time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC)},
	}

	got := apply(items, Options{}, now)
	require.Equal(t, []string{"2025-05-10", "2025-05-11"}, got.Dates)
	assert.Len(t, got.ByDate["2025-05-10"], 2)
	assert.Equal(t, "a", got.ByDate["2025-05-10"][0].name)
	assert.Equal(t, "c", got.ByDate["2025-05-10"][1].name)
}
