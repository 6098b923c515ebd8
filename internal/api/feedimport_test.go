package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/pitchside/internal/feed"
	"github.com/pitchside/pitchside/internal/pitchside"
)

const importFeedBody = `{
  "matches": [
    {
      "id": 201,
      "utcDate": "2025-05-10T19:00:00Z",
      "status": "TIMED",
      "homeTeam": {"name": "Arsenal", "crest": "https://crests.example/arsenal.png"},
      "awayTeam": {"name": "Chelsea", "crest": "https://crests.example/chelsea.png"},
      "competition": {"name": "Premier League", "area": {"name": "England"}},
      "score": {"fullTime": {"home": null, "away": null}}
    },
    {
      "id": 202,
      "utcDate": "2025-05-09T19:00:00Z",
      "status": "FINISHED",
      "homeTeam": {"name": "Chelsea", "crest": "https://crests.example/chelsea-alt.png"},
      "awayTeam": {"name": "Fulham"},
      "competition": {"name": "Premier League", "area": {"name": "England"}},
      "score": {"fullTime": {"home": 3, "away": 1}}
    }
  ]
}`

// newImportServer serves the fixture body for the first competition code
// and empty lists for the rest, so the batch holds exactly two matches.
func newImportServer(t *testing.T) *Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "/competitions/PL/") {
			fmt.Fprint(w, importFeedBody)
			return
		}
		fmt.Fprint(w, `{"matches":[]}`)
	}))
	t.Cleanup(srv.Close)

	return newTestServer(t, feed.WithBaseURL(srv.URL))
}

func TestGetFeedMatches(t *testing.T) {
	s := newImportServer(t)

	rec := do(t, s, http.MethodGet, "/api/feed/matches", "", adminCookie(t, s))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FeedMatchesResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, []string{"Premier League"}, resp.Leagues)
}

func TestPostFeedImport(t *testing.T) {
	s := newImportServer(t)

	rec := do(t, s, http.MethodPost, "/api/feed/import", `{}`, adminCookie(t, s))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImportResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 0, resp.Failed)
	// Arsenal, Chelsea, Fulham.
	assert.Equal(t, 3, resp.TeamsCreated)

	// Teams registered once each, with feed metadata.
	var teams []pitchside.Team
	list := do(t, s, http.MethodGet, "/api/teams", "")
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &teams))
	require.Len(t, teams, 3)
	for _, team := range teams {
		assert.Equal(t, "England", team.Country)
		if team.Name == "Fulham" {
			// No crest in the feed, so the placeholder stands in.
			assert.Contains(t, team.Logo, "data:image/svg+xml")
		}
	}

	// Imported fixtures land as upcoming with the placeholder embed, even
	// when the feed already reports them finished. Scores still carry.
	detail := do(t, s, http.MethodGet, "/api/matches/chelsea-vs-fulham-2025", "")
	require.Equal(t, http.StatusOK, detail.Code)
	var match MatchDetailResp
	require.NoError(t, json.Unmarshal(detail.Body.Bytes(), &match))
	assert.Equal(t, pitchside.StatusUpcoming, match.Status)
	assert.Equal(t, "<div>Stream link not added yet</div>", match.StreamEmbed)
	assert.Equal(t, 3, match.HomeScore)
	assert.Equal(t, 1, match.AwayScore)

	t.Run("re-import is tallied as failed, not duplicated", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/feed/import", `{}`, adminCookie(t, s))
		require.Equal(t, http.StatusOK, rec.Code)

		var again ImportResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
		assert.Equal(t, 0, again.Imported)
		assert.Equal(t, 2, again.Failed)
		assert.Equal(t, 0, again.TeamsCreated)
	})
}

func TestPostFeedImport_SelectedIDs(t *testing.T) {
	s := newImportServer(t)

	rec := do(t, s, http.MethodPost, "/api/feed/import", `{"match_ids":[202]}`, adminCookie(t, s))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImportResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 2, resp.TeamsCreated)

	missing := do(t, s, http.MethodGet, "/api/matches/arsenal-vs-chelsea-2025", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
