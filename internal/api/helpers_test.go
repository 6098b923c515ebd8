package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/pitchside/pitchside/internal/feed"
	"github.com/pitchside/pitchside/internal/migrations"
	"github.com/pitchside/pitchside/internal/pitchside"
	"github.com/pitchside/pitchside/internal/sqlite"
)

func newTestRepo(t *testing.T) sqlite.Repo {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	require.NoError(t, migrations.Run(db))

	return sqlite.New(db)
}

func newTestServer(t *testing.T, feedOpts ...feed.Option) *Server {
	t.Helper()

	if len(feedOpts) == 0 {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"matches":[]}`))
		}))
		t.Cleanup(srv.Close)
		feedOpts = []feed.Option{feed.WithBaseURL(srv.URL)}
	}

	return NewServer(ServerConfig{
		Port:           0,
		CookieHashKey:  securecookie.GenerateRandomKey(32),
		CookieBlockKey: securecookie.GenerateRandomKey(32),
		CorsOrigin:     "*",
	}, newTestRepo(t), feed.New("test-key", feedOpts...))
}

// do routes a request through the full handler stack, middleware
// included.
func do(t *testing.T, s *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	return rec
}

// adminCookie fabricates a valid session cookie the way postLogin would.
func adminCookie(t *testing.T, s *Server) *http.Cookie {
	t.Helper()

	encoded, err := s.secureCookie.Encode(sessionCookieName, sessionState{
		AdminID: 1,
		Email:   "boss@example.com",
	})
	require.NoError(t, err)

	return &http.Cookie{Name: sessionCookieName, Value: encoded}
}

func seedAdmin(t *testing.T, s *Server, email, password string) pitchside.AdminUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin, err := s.repo.InsertAdmin(context.Background(), email, string(hash))
	require.NoError(t, err)

	return admin
}

func seedTeam(t *testing.T, s *Server, name string) pitchside.Team {
	t.Helper()

	team, err := s.repo.InsertTeam(context.Background(), pitchside.Team{
		Name:    name,
		Logo:    "https://crests.example/" + name + ".png",
		Country: "England",
	})
	require.NoError(t, err)

	return team
}

func seedMatch(t *testing.T, s *Server, home, away pitchside.Team, date, kickoffTime string) pitchside.Match {
	t.Helper()

	m, err := s.repo.InsertMatch(context.Background(), pitchside.Match{
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Date:       date,
		Time:       kickoffTime,
		Status:     pitchside.StatusUpcoming,
		League:     "Premier League",
		Lineups:    pitchside.Lineups{Home: []string{}, Away: []string{}},
		BlogPosts:  pitchside.BlogPosts{},
		Slug:       pitchside.Slug(home.Name, away.Name, date),
	})
	require.NoError(t, err)

	return m
}
