package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pitchside/pitchside/internal/feed"
	"github.com/pitchside/pitchside/internal/pitchside"
	"github.com/pitchside/pitchside/internal/register"
	"github.com/pitchside/pitchside/internal/serverutil"
)

type FeedMatchesResp struct {
	Matches []feed.Match `json:"matches"`
	Leagues []string     `json:"leagues"`
}

// getFeedMatches previews the upstream fixtures so an admin can pick
// which ones to import. Leagues carries the full league set for the
// picker.
func (s Server) getFeedMatches(w http.ResponseWriter, r *http.Request) error {
	matches := s.feedClient.FetchMatches(r.Context())

	resp := FeedMatchesResp{
		Matches: matches,
		Leagues: feed.Leagues(matches),
	}
	if resp.Matches == nil {
		resp.Matches = []feed.Match{}
	}
	if resp.Leagues == nil {
		resp.Leagues = []string{}
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

// defaultStreamEmbed is what imported matches carry until an admin
// pastes a real player iframe.
const defaultStreamEmbed = "<div>Stream link not added yet</div>"

type ImportReq struct {
	// MatchIDs selects which previewed fixtures to import. Empty means
	// the whole batch.
	MatchIDs []int64 `json:"match_ids"`
}

func (req ImportReq) Validate() error {
	return nil
}

type ImportResp struct {
	Imported     int `json:"imported"`
	Failed       int `json:"failed"`
	TeamsCreated int `json:"teams_created"`
}

// postFeedImport turns feed fixtures into stored matches. Teams get
// auto-registered first; fixtures whose teams could not resolve, or that
// collide with an already imported slug, are tallied and skipped rather
// than aborting the batch.
func (s Server) postFeedImport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := serverutil.DecodeValid[ImportReq](r.Body)
	if err != nil {
		return err
	}

	batch := s.feedClient.FetchMatches(ctx)
	if len(body.MatchIDs) > 0 {
		wanted := make(map[int64]struct{}, len(body.MatchIDs))
		for _, id := range body.MatchIDs {
			wanted[id] = struct{}{}
		}
		var selected []feed.Match
		for _, m := range batch {
			if _, ok := wanted[m.ID]; ok {
				selected = append(selected, m)
			}
		}
		batch = selected
	}

	teams, regRes, err := register.Teams(ctx, s.repo, batch)
	if err != nil {
		return err
	}

	resp := ImportResp{TeamsCreated: regRes.Created}
	for _, fm := range batch {
		home, okHome := teams[fm.HomeTeam.Name]
		away, okAway := teams[fm.AwayTeam.Name]
		if !okHome || !okAway {
			resp.Failed++
			continue
		}

		// Imports always land as upcoming with a placeholder embed; an
		// admin flips the status and pastes the stream later.
		date := fm.UTCDate.UTC().Format("2006-01-02")
		m := pitchside.Match{
			HomeTeamID:  home.ID,
			AwayTeamID:  away.ID,
			Date:        date,
			Time:        fm.UTCDate.UTC().Format("15:04"),
			Status:      pitchside.StatusUpcoming,
			StreamEmbed: defaultStreamEmbed,
			Lineups:     pitchside.Lineups{Home: []string{}, Away: []string{}},
			BlogPosts:   pitchside.BlogPosts{},
			League:      fm.Competition.Name,
			Slug:        pitchside.Slug(home.Name, away.Name, date),
		}
		if fm.Score.FullTime.Home != nil {
			m.HomeScore = *fm.Score.FullTime.Home
		}
		if fm.Score.FullTime.Away != nil {
			m.AwayScore = *fm.Score.FullTime.Away
		}

		if _, err := s.repo.InsertMatch(ctx, m); err != nil {
			if !errors.Is(err, pitchside.ErrConflict) {
				slog.ErrorContext(ctx, "error importing match", "slug", m.Slug, "err", err)
			}
			resp.Failed++
			continue
		}
		resp.Imported++
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}
