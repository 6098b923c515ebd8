package api

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	pserrs "github.com/pitchside/pitchside/internal/errors"
	"github.com/pitchside/pitchside/internal/serverutil"
)

type CreateAdminReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req CreateAdminReq) Validate() error {
	var details []pserrs.Detail
	if !strings.Contains(req.Email, "@") {
		details = append(details, pserrs.Detail{Field: "email", Error: "must be an email address"})
	}
	if len(req.Password) < 8 {
		details = append(details, pserrs.Detail{Field: "password", Error: "must be at least 8 characters"})
	}
	if len(details) > 0 {
		return pserrs.E("invalid admin request", details, http.StatusBadRequest)
	}

	return nil
}

func (s Server) postAdmin(w http.ResponseWriter, r *http.Request) error {
	body, err := serverutil.DecodeValid[CreateAdminReq](r.Body)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin, err := s.repo.InsertAdmin(r.Context(), body.Email, string(hash))
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, admin)
}
