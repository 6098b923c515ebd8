// Package register reconciles team references in an external feed batch
// against the team store, creating each missing team exactly once per
// distinct name.
package register

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pitchside/pitchside/internal/feed"
	"github.com/pitchside/pitchside/internal/pitchside"
)

// PlaceholderLogo is used when the feed carries no crest for a team.
const PlaceholderLogo = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iNDgiIGhlaWdodD0iNDgiIHZpZXdCb3g9IjAgMCA0OCA0OCIgZmlsbD0ibm9uZSIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj4KPHJlY3Qgd2lkdGg9IjQ4IiBoZWlnaHQ9IjQ4IiBmaWxsPSIjMzc0MTUxIi8+Cjx0ZXh0IHg9IjI0IiB5PSIyNCIgZm9udC1mYW1pbHk9IkFyaWFsIiBmb250LXNpemU9IjE0IiBmaWxsPSJ3aGl0ZSIgdGV4dC1hbmNob3I9Im1pZGRsZSIgZG9taW5hbnQtYmFzZWxpbmU9Im1pZGRsZSI+VEVBTTwvdGV4dD4KPC9zdmc+"

// TeamStore is the slice of the repository this package needs.
type TeamStore interface {
	Teams(ctx context.Context) ([]pitchside.Team, error)
	EnsureTeam(ctx context.Context, t pitchside.Team) (pitchside.Team, error)
}

// Result tallies what happened to each distinct team name in a batch.
type Result struct {
	Created int `json:"created"`
	Reused  int `json:"reused"`
	Failed  int `json:"failed"`
}

type descriptor struct {
	team        feed.TeamRef
	competition feed.Competition
}

// Teams ensures a team row exists for every distinct name in the batch
// and returns the resolved teams keyed by name. When the same name shows
// up on multiple feed records the last descriptor seen wins. The store
// snapshot is taken once up front; name uniqueness is guaranteed by the
// store's upsert, not by the snapshot. A failed create is logged, tallied,
// and skipped so the rest of the batch still resolves.
func Teams(ctx context.Context, store TeamStore, matches []feed.Match) (map[string]pitchside.Team, Result, error) {
	unique := map[string]descriptor{}
	for _, m := range matches {
		if m.HomeTeam.Name != "" {
			unique[m.HomeTeam.Name] = descriptor{team: m.HomeTeam, competition: m.Competition}
		}
		if m.AwayTeam.Name != "" {
			unique[m.AwayTeam.Name] = descriptor{team: m.AwayTeam, competition: m.Competition}
		}
	}

	resolved := make(map[string]pitchside.Team, len(unique))
	if len(unique) == 0 {
		return resolved, Result{}, nil
	}

	existing, err := store.Teams(ctx)
	if err != nil {
		return nil, Result{}, err
	}
	byName := make(map[string]pitchside.Team, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}

	var res Result
	for name, d := range unique {
		if t, ok := byName[name]; ok {
			resolved[name] = t
			res.Reused++
			continue
		}

		t, err := store.EnsureTeam(ctx, pitchside.Team{
			Name:    name,
			Logo:    logo(d.team),
			Country: country(d.competition),
		})
		if err != nil {
			slog.ErrorContext(ctx, "error registering team", "name", name, "err", err)
			res.Failed++
			continue
		}
		resolved[name] = t
		res.Created++
	}

	return resolved, res, nil
}

func logo(t feed.TeamRef) string {
	if t.Crest != "" {
		return t.Crest
	}
	return PlaceholderLogo
}

// country resolves where a team plays: the competition's area when the
// feed provides one, else a lookup over well-known competition names,
// else "International".
func country(c feed.Competition) string {
	if c.Area.Name != "" {
		return c.Area.Name
	}

	name := strings.ToLower(c.Name)
	for _, l := range []struct {
		fragment, country string
	}{
		{"premier league", "England"},
		{"la liga", "Spain"},
		{"serie a", "Italy"},
		{"bundesliga", "Germany"},
		{"ligue 1", "France"},
		{"champions league", "Europe"},
	} {
		if strings.Contains(name, l.fragment) {
			return l.country
		}
	}

	return "International"
}
