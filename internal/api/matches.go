package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sym01/htmlsanitizer"

	pserrs "github.com/pitchside/pitchside/internal/errors"
	"github.com/pitchside/pitchside/internal/filter"
	"github.com/pitchside/pitchside/internal/pitchside"
	"github.com/pitchside/pitchside/internal/serverutil"
)

type (
	// MatchResp is a match with both team rows resolved for display.
	MatchResp struct {
		pitchside.Match
		HomeTeam pitchside.Team `json:"home_team"`
		AwayTeam pitchside.Team `json:"away_team"`
	}

	// MatchDetailResp adds the bits only the detail page needs: the
	// extracted stream URL and the live blog most-recent-first.
	MatchDetailResp struct {
		MatchResp
		StreamSrc string `json:"stream_src"`
	}

	// GroupedMatchesResp buckets the filtered list by date. Dates holds
	// the group keys in presentation order.
	GroupedMatchesResp struct {
		Dates  []string               `json:"dates"`
		Groups map[string][]MatchResp `json:"groups"`
	}
)

// resolvedMatches loads every match with its team rows attached, in
// kickoff order.
func (s Server) resolvedMatches(r *http.Request) ([]MatchResp, error) {
	ctx := r.Context()

	matches, err := s.repo.Matches(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.repo.Teams(ctx)
	if err != nil {
		return nil, err
	}
	teamsByID := make(map[int64]pitchside.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	resps := make([]MatchResp, 0, len(matches))
	for _, m := range matches {
		resps = append(resps, MatchResp{
			Match:    m,
			HomeTeam: teamsByID[m.HomeTeamID],
			AwayTeam: teamsByID[m.AwayTeamID],
		})
	}

	return resps, nil
}

func matchFields(m MatchResp) filter.Fields {
	return filter.Fields{
		Status:  string(m.Status),
		Kickoff: kickoff(m.Match),
		Date:    m.Date,
		Home:    m.HomeTeam.Name,
		Away:    m.AwayTeam.Name,
		League:  m.League,
	}
}

// kickoff turns the stored date and optional time into an instant, read
// as UTC.
func kickoff(m pitchside.Match) time.Time {
	if m.Time != "" {
		if t, err := time.Parse("2006-01-02 15:04", m.Date+" "+m.Time); err == nil {
			return t
		}
	}
	t, _ := time.Parse("2006-01-02", m.Date)
	return t
}

// getMatches serves the filtered, date-grouped listing. Recognized query
// parameters: status, range, start, end, q, and league (repeatable; when
// present only the named leagues pass).
func (s Server) getMatches(w http.ResponseWriter, r *http.Request) error {
	resps, err := s.resolvedMatches(r)
	if err != nil {
		return err
	}

	q := r.URL.Query()
	opts := filter.Options{
		Status:    q.Get("status"),
		DateRange: q.Get("range"),
		Start:     q.Get("start"),
		End:       q.Get("end"),
		Search:    q.Get("q"),
	}
	if leagues, ok := q["league"]; ok {
		opts.Leagues = leagues
	}

	grouped := filter.Apply(resps, matchFields, opts, time.Now())

	resp := GroupedMatchesResp{
		Dates:  grouped.Dates,
		Groups: grouped.ByDate,
	}
	if resp.Dates == nil {
		resp.Dates = []string{}
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

func (s Server) getMatchBySlug(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	m, err := s.repo.MatchBySlug(ctx, mux.Vars(r)["slug"])
	if err != nil {
		return err
	}
	home, err := s.repo.Team(ctx, m.HomeTeamID)
	if err != nil && !errors.Is(err, pitchside.ErrNotFound) {
		return err
	}
	away, err := s.repo.Team(ctx, m.AwayTeamID)
	if err != nil && !errors.Is(err, pitchside.ErrNotFound) {
		return err
	}

	// Storage keeps blog posts in insertion order; readers see the
	// newest update first.
	reversed := make(pitchside.BlogPosts, 0, len(m.BlogPosts))
	for i := len(m.BlogPosts) - 1; i >= 0; i-- {
		reversed = append(reversed, m.BlogPosts[i])
	}
	m.BlogPosts = reversed

	return serverutil.WriteJSON(w, http.StatusOK, MatchDetailResp{
		MatchResp: MatchResp{
			Match:    m,
			HomeTeam: home,
			AwayTeam: away,
		},
		StreamSrc: pitchside.StreamSrc(m.StreamEmbed),
	})
}

type MatchReq struct {
	HomeTeamID  int64  `json:"home_team_id"`
	AwayTeamID  int64  `json:"away_team_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	League      string `json:"league"`
	StreamEmbed string `json:"stream_embed"`
}

func (req MatchReq) Validate() error {
	var details []pserrs.Detail
	if req.HomeTeamID == 0 {
		details = append(details, pserrs.Detail{Field: "home_team_id", Error: "is required"})
	}
	if req.AwayTeamID == 0 {
		details = append(details, pserrs.Detail{Field: "away_team_id", Error: "is required"})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		details = append(details, pserrs.Detail{Field: "date", Error: "must be a calendar date"})
	}
	if req.Status != "" && !pitchside.MatchStatus(req.Status).Valid() {
		details = append(details, pserrs.Detail{Field: "status", Error: "is not a valid status"})
	}
	if len(details) > 0 {
		return pserrs.E("invalid match request", details, http.StatusBadRequest)
	}

	return nil
}

func (s Server) postMatch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := serverutil.DecodeValid[MatchReq](r.Body)
	if err != nil {
		return err
	}

	home, err := s.repo.Team(ctx, body.HomeTeamID)
	if errors.Is(err, pitchside.ErrNotFound) {
		return pserrs.E("home team does not exist", pserrs.Detail{Field: "home_team_id", Error: "unknown team"}, http.StatusBadRequest)
	}
	if err != nil {
		return err
	}
	away, err := s.repo.Team(ctx, body.AwayTeamID)
	if errors.Is(err, pitchside.ErrNotFound) {
		return pserrs.E("away team does not exist", pserrs.Detail{Field: "away_team_id", Error: "unknown team"}, http.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	status := pitchside.MatchStatus(body.Status)
	if body.Status == "" {
		status = pitchside.StatusUpcoming
	}

	embed, err := sanitizeEmbed(body.StreamEmbed)
	if err != nil {
		return err
	}

	m, err := s.repo.InsertMatch(ctx, pitchside.Match{
		HomeTeamID:  home.ID,
		AwayTeamID:  away.ID,
		Date:        body.Date,
		Time:        body.Time,
		Status:      status,
		StreamEmbed: embed,
		Lineups:     pitchside.Lineups{Home: []string{}, Away: []string{}},
		BlogPosts:   pitchside.BlogPosts{},
		League:      body.League,
		Slug:        pitchside.Slug(home.Name, away.Name, body.Date),
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, MatchResp{
		Match:    m,
		HomeTeam: home,
		AwayTeam: away,
	})
}

type UpdateMatchReq struct {
	HomeTeamID  *int64  `json:"home_team_id"`
	AwayTeamID  *int64  `json:"away_team_id"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Status      *string `json:"status"`
	League      *string `json:"league"`
	StreamEmbed *string `json:"stream_embed"`
}

func (req UpdateMatchReq) Validate() error {
	var details []pserrs.Detail
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			details = append(details, pserrs.Detail{Field: "date", Error: "must be a calendar date"})
		}
	}
	if req.Status != nil && !pitchside.MatchStatus(*req.Status).Valid() {
		details = append(details, pserrs.Detail{Field: "status", Error: "is not a valid status"})
	}
	if len(details) > 0 {
		return pserrs.E("invalid match update", details, http.StatusBadRequest)
	}

	return nil
}

func (s Server) putMatch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	body, err := serverutil.DecodeValid[UpdateMatchReq](r.Body)
	if err != nil {
		return err
	}
	if _, err := s.repo.Match(ctx, id); err != nil {
		return err
	}

	if body.HomeTeamID != nil {
		if _, err := s.repo.Team(ctx, *body.HomeTeamID); errors.Is(err, pitchside.ErrNotFound) {
			return pserrs.E("home team does not exist", pserrs.Detail{Field: "home_team_id", Error: "unknown team"}, http.StatusBadRequest)
		} else if err != nil {
			return err
		}
	}
	if body.AwayTeamID != nil {
		if _, err := s.repo.Team(ctx, *body.AwayTeamID); errors.Is(err, pitchside.ErrNotFound) {
			return pserrs.E("away team does not exist", pserrs.Detail{Field: "away_team_id", Error: "unknown team"}, http.StatusBadRequest)
		} else if err != nil {
			return err
		}
	}

	args := pitchside.UpdateMatchArgs{
		HomeTeamID: body.HomeTeamID,
		AwayTeamID: body.AwayTeamID,
		Date:       body.Date,
		Time:       body.Time,
		League:     body.League,
	}
	if body.Status != nil {
		status := pitchside.MatchStatus(*body.Status)
		args.Status = &status
	}
	if body.StreamEmbed != nil {
		embed, err := sanitizeEmbed(*body.StreamEmbed)
		if err != nil {
			return err
		}
		args.StreamEmbed = &embed
	}

	m, err := s.repo.UpdateMatch(ctx, id, args)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, m)
}

func (s Server) deleteMatch(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if _, err := s.repo.Match(r.Context(), id); err != nil {
		return err
	}
	if err := s.repo.DeleteMatch(r.Context(), id); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

// ScoreReq updates both scores and, when the card flips a match live or
// full-time, the status in the same call.
type ScoreReq struct {
	HomeScore *int    `json:"home_score"`
	AwayScore *int    `json:"away_score"`
	Status    *string `json:"status"`
}

func (req ScoreReq) Validate() error {
	var details []pserrs.Detail
	if req.HomeScore == nil || *req.HomeScore < 0 {
		details = append(details, pserrs.Detail{Field: "home_score", Error: "must be a non-negative integer"})
	}
	if req.AwayScore == nil || *req.AwayScore < 0 {
		details = append(details, pserrs.Detail{Field: "away_score", Error: "must be a non-negative integer"})
	}
	if req.Status != nil && !pitchside.MatchStatus(*req.Status).Valid() {
		details = append(details, pserrs.Detail{Field: "status", Error: "is not a valid status"})
	}
	if len(details) > 0 {
		return pserrs.E("invalid score update", details, http.StatusBadRequest)
	}

	return nil
}

func (s Server) putScore(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	body, err := serverutil.DecodeValid[ScoreReq](r.Body)
	if err != nil {
		return err
	}
	if _, err := s.repo.Match(r.Context(), id); err != nil {
		return err
	}

	args := pitchside.UpdateMatchArgs{
		HomeScore: body.HomeScore,
		AwayScore: body.AwayScore,
	}
	if body.Status != nil {
		status := pitchside.MatchStatus(*body.Status)
		args.Status = &status
	}

	m, err := s.repo.UpdateMatch(r.Context(), id, args)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, m)
}

type LineupsReq struct {
	Home []string `json:"home"`
	Away []string `json:"away"`
}

func (req LineupsReq) Validate() error {
	return nil
}

func (s Server) putLineups(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	body, err := serverutil.DecodeValid[LineupsReq](r.Body)
	if err != nil {
		return err
	}
	if _, err := s.repo.Match(r.Context(), id); err != nil {
		return err
	}

	lineups := pitchside.Lineups{Home: body.Home, Away: body.Away}
	if lineups.Home == nil {
		lineups.Home = []string{}
	}
	if lineups.Away == nil {
		lineups.Away = []string{}
	}

	m, err := s.repo.UpdateMatch(r.Context(), id, pitchside.UpdateMatchArgs{
		Lineups: &lineups,
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, m)
}

var blogPolicy = bluemonday.StrictPolicy()

type BlogPostReq struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

func (req BlogPostReq) Validate() error {
	var details []pserrs.Detail
	if strings.TrimSpace(req.Content) == "" {
		details = append(details, pserrs.Detail{Field: "content", Error: "is required"})
	}
	if req.Type != "" && !pitchside.BlogPostType(req.Type).Valid() {
		details = append(details, pserrs.Detail{Field: "type", Error: "is not a valid post type"})
	}
	if len(details) > 0 {
		return pserrs.E("invalid blog post", details, http.StatusBadRequest)
	}

	return nil
}

func (s Server) postBlogPost(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	body, err := serverutil.DecodeValid[BlogPostReq](r.Body)
	if err != nil {
		return err
	}
	m, err := s.repo.Match(r.Context(), id)
	if err != nil {
		return err
	}

	postType := pitchside.BlogPostType(body.Type)
	if body.Type == "" {
		postType = pitchside.BlogPostGeneral
	}

	now := time.Now()
	posts := append(m.BlogPosts, pitchside.BlogPost{
		ID:        now.UnixMilli(),
		Timestamp: now.Format("15:04"),
		Content:   blogPolicy.Sanitize(strings.TrimSpace(body.Content)),
		Type:      postType,
	})

	updated, err := s.repo.UpdateMatch(r.Context(), id, pitchside.UpdateMatchArgs{
		BlogPosts: &posts,
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, updated)
}

func (s Server) deleteBlogPost(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		return err
	}
	m, err := s.repo.Match(r.Context(), id)
	if err != nil {
		return err
	}

	posts := make(pitchside.BlogPosts, 0, len(m.BlogPosts))
	found := false
	for _, p := range m.BlogPosts {
		if p.ID == postID {
			found = true
			continue
		}
		posts = append(posts, p)
	}
	if !found {
		return pserrs.E("no such blog post", http.StatusNotFound)
	}

	updated, err := s.repo.UpdateMatch(r.Context(), id, pitchside.UpdateMatchArgs{
		BlogPosts: &posts,
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, updated)
}

// sanitizeEmbed strips the pasted embed markup down to iframes with a
// handful of presentation attributes. Script tags and event handlers
// never reach storage.
func sanitizeEmbed(embed string) (string, error) {
	if embed == "" {
		return "", nil
	}

	sanitizer := htmlsanitizer.NewHTMLSanitizer()
	sanitizer.AllowList = &htmlsanitizer.AllowList{
		Tags: []*htmlsanitizer.Tag{
			{
				Name:    "iframe",
				Attr:    []string{"width", "height", "allow", "allowfullscreen", "frameborder", "scrolling"},
				URLAttr: []string{"src"},
			},
		},
	}

	cleaned, err := sanitizer.SanitizeString(embed)
	if err != nil {
		return "", pserrs.E("could not sanitize stream embed", http.StatusBadRequest)
	}

	return cleaned, nil
}
