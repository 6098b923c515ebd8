package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"

	pserrs "github.com/pitchside/pitchside/internal/errors"
	"github.com/pitchside/pitchside/internal/pitchside"
	"github.com/pitchside/pitchside/internal/serverutil"
)

const sessionCookieName = "pitchside_session"

// Describes an admin's sessionState that's persisted to their cookie.
type sessionState struct {
	AdminID int64
	Email   string
}

// Fetches the current session tied to the request.
func session(r *http.Request, secureCookie *securecookie.SecureCookie) sessionState {
	cookie, err := r.Cookie(sessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return sessionState{}
	}
	if err != nil {
		slog.Error("error fetching cookie", "err", err)
		return sessionState{}
	}

	value := sessionState{}
	if err := secureCookie.Decode(sessionCookieName, cookie.Value, &value); err != nil {
		slog.Error("error decoding cookie", "err", err)
		return sessionState{}
	}

	return value
}

// Sets the session on the request.
func setSession(w http.ResponseWriter, secureCookie *securecookie.SecureCookie, https bool, sess sessionState) {
	encoded, err := secureCookie.Encode(sessionCookieName, sess)
	if err != nil {
		slog.Error("error encoding cookie", "err", err)
		return
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		Secure:   https,
		HttpOnly: true,
	}
	http.SetCookie(w, cookie)
}

func requireSessionMiddleware(sc *securecookie.SecureCookie) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := session(r, sc)
			if state.AdminID == 0 {
				http.Error(w, "Unauthenticated", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req LoginReq) Validate() error {
	var details []pserrs.Detail
	if req.Email == "" {
		details = append(details, pserrs.Detail{Field: "email", Error: "is required"})
	}
	if req.Password == "" {
		details = append(details, pserrs.Detail{Field: "password", Error: "is required"})
	}
	if len(details) > 0 {
		return pserrs.E("invalid login request", details, http.StatusBadRequest)
	}

	return nil
}

func (s Server) postLogin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := serverutil.DecodeValid[LoginReq](r.Body)
	if err != nil {
		return err
	}

	admin, err := s.repo.AdminByEmail(ctx, body.Email)
	if errors.Is(err, pitchside.ErrNotFound) {
		// Same response as a bad password so the endpoint doesn't leak
		// which emails exist.
		return pserrs.E("invalid credentials", http.StatusUnauthorized)
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(body.Password)); err != nil {
		return pserrs.E("invalid credentials", http.StatusUnauthorized)
	}

	if err := s.repo.TouchAdminLogin(ctx, admin.ID, time.Now().UTC()); err != nil {
		return err
	}

	setSession(w, s.secureCookie, s.httpsCookies, sessionState{
		AdminID: admin.ID,
		Email:   admin.Email,
	})

	return serverutil.WriteJSON(w, http.StatusOK, Viewer{
		Authenticated: true,
		Email:         admin.Email,
	})
}

func (s Server) getLogout(w http.ResponseWriter, r *http.Request) error {
	setSession(w, s.secureCookie, s.httpsCookies, sessionState{})

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

// Viewer is the structured data about the current visitor in the frontend.
type Viewer struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

func (s Server) handleViewer(w http.ResponseWriter, r *http.Request) error {
	sess := session(r, s.secureCookie)
	if sess.AdminID == 0 {
		return serverutil.WriteJSON(w, http.StatusOK, Viewer{})
	}

	return serverutil.WriteJSON(w, http.StatusOK, Viewer{
		Authenticated: true,
		Email:         sess.Email,
	})
}
