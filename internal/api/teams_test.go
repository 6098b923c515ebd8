package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/pitchside/internal/pitchside"
	"github.com/pitchside/pitchside/internal/register"
)

func TestPostTeam(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/teams", `{"name":"Alpha FC","country":"England"}`, adminCookie(t, s))
	require.Equal(t, http.StatusCreated, rec.Code)

	var team pitchside.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &team))
	assert.NotZero(t, team.ID)
	assert.Equal(t, "Alpha FC", team.Name)
	// No logo supplied, so the placeholder stands in.
	assert.Equal(t, register.PlaceholderLogo, team.Logo)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/teams", `{"name":"Alpha FC"}`, adminCookie(t, s))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/teams", `{"country":"England"}`, adminCookie(t, s))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTeams_Public(t *testing.T) {
	s := newTestServer(t)
	seedTeam(t, s, "Alpha FC")
	seedTeam(t, s, "Beta United")

	rec := do(t, s, http.MethodGet, "/api/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var teams []pitchside.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teams))
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha FC", teams[0].Name)
}

func TestPutTeam(t *testing.T) {
	s := newTestServer(t)
	team := seedTeam(t, s, "Alpha FC")

	rec := do(t, s, http.MethodPut, fmt.Sprintf("/api/teams/%d", team.ID), `{"country":"Spain"}`, adminCookie(t, s))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated pitchside.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Spain", updated.Country)
	assert.Equal(t, "Alpha FC", updated.Name)

	t.Run("unknown team 404s", func(t *testing.T) {
		rec := do(t, s, http.MethodPut, "/api/teams/999", `{"country":"Spain"}`, adminCookie(t, s))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		rec := do(t, s, http.MethodPut, fmt.Sprintf("/api/teams/%d", team.ID), `{"name":""}`, adminCookie(t, s))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteTeam_ReferencedByMatch(t *testing.T) {
	var (
		s    = newTestServer(t)
		home = seedTeam(t, s, "Alpha FC")
		away = seedTeam(t, s, "Beta United")
	)
	match := seedMatch(t, s, home, away, "2025-05-01", "20:00")

	rec := do(t, s, http.MethodDelete, fmt.Sprintf("/api/teams/%d", home.ID), "", adminCookie(t, s))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Still listed afterwards.
	list := do(t, s, http.MethodGet, "/api/teams", "")
	var teams []pitchside.Team
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &teams))
	assert.Len(t, teams, 2)

	// Once the match is gone the delete goes through.
	del := do(t, s, http.MethodDelete, fmt.Sprintf("/api/matches/%d", match.ID), "", adminCookie(t, s))
	require.Equal(t, http.StatusOK, del.Code)
	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/teams/%d", home.ID), "", adminCookie(t, s))
	assert.Equal(t, http.StatusOK, rec.Code)
}
