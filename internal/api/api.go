// Package api is the HTTP surface: a public viewer side for browsing
// match listings and a session-gated admin side for managing them.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"

	"github.com/pitchside/pitchside/internal/feed"
	"github.com/pitchside/pitchside/internal/pitchside"
	"github.com/pitchside/pitchside/internal/serverutil"
)

type (
	// Server handles both the public listing endpoints and the admin
	// mutation endpoints.
	Server struct {
		*http.Server

		repo       pitchside.Repository
		feedClient *feed.Client

		secureCookie *securecookie.SecureCookie
		httpsCookies bool // Whether or not HTTPS should be used for cookies
	}

	ServerConfig struct {
		Port           int
		CookieHashKey  []byte
		CookieBlockKey []byte
		HttpsCookies   bool
		CorsOrigin     string
	}
)

func NewServer(config ServerConfig, repo pitchside.Repository, feedClient *feed.Client) *Server {
	r := serverutil.ErrRouter{Router: mux.NewRouter()}

	srvr := Server{
		repo:         repo,
		feedClient:   feedClient,
		secureCookie: securecookie.New(config.CookieHashKey, config.CookieBlockKey),
		httpsCookies: config.HttpsCookies,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowCredentials(),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.HandleFuncE("/api/viewer", srvr.handleViewer).Methods(http.MethodGet)
	r.HandleFuncE("/api/login", srvr.postLogin).Methods(http.MethodPost)
	r.HandleFuncE("/api/logout", srvr.getLogout).Methods(http.MethodGet)

	// Public listing views
	r.HandleFuncE("/api/teams", srvr.getTeams).Methods(http.MethodGet)
	r.HandleFuncE("/api/matches", srvr.getMatches).Methods(http.MethodGet)
	r.HandleFuncE("/api/matches/{slug}", srvr.getMatchBySlug).Methods(http.MethodGet)

	authed := serverutil.ErrRouter{Router: r.NewRoute().Subrouter()}
	authed.Use(requireSessionMiddleware(srvr.secureCookie))

	// Team management
	authed.HandleFuncE("/api/teams", srvr.postTeam).Methods(http.MethodPost)
	authed.HandleFuncE("/api/teams/{id:[0-9]+}", srvr.putTeam).Methods(http.MethodPut)
	authed.HandleFuncE("/api/teams/{id:[0-9]+}", srvr.deleteTeam).Methods(http.MethodDelete)

	// Match management
	authed.HandleFuncE("/api/matches", srvr.postMatch).Methods(http.MethodPost)
	authed.HandleFuncE("/api/matches/{id:[0-9]+}", srvr.putMatch).Methods(http.MethodPut)
	authed.HandleFuncE("/api/matches/{id:[0-9]+}", srvr.deleteMatch).Methods(http.MethodDelete)
	authed.HandleFuncE("/api/matches/{id:[0-9]+}/score", srvr.putScore).Methods(http.MethodPut)
	authed.HandleFuncE("/api/matches/{id:[0-9]+}/lineups", srvr.putLineups).Methods(http.MethodPut)

	// Live blog
	authed.HandleFuncE("/api/matches/{id:[0-9]+}/blog", srvr.postBlogPost).Methods(http.MethodPost)
	authed.HandleFuncE("/api/matches/{id:[0-9]+}/blog/{postID:[0-9]+}", srvr.deleteBlogPost).Methods(http.MethodDelete)

	// Feed preview and import
	authed.HandleFuncE("/api/feed/matches", srvr.getFeedMatches).Methods(http.MethodGet)
	authed.HandleFuncE("/api/feed/import", srvr.postFeedImport).Methods(http.MethodPost)

	// Admin accounts
	authed.HandleFuncE("/api/admins", srvr.postAdmin).Methods(http.MethodPost)

	slog.Debug("configured api server", "port", config.Port)

	return &srvr
}
