package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	pserrs "github.com/pitchside/pitchside/internal/errors"
	"github.com/pitchside/pitchside/internal/pitchside"
	"github.com/pitchside/pitchside/internal/register"
	"github.com/pitchside/pitchside/internal/serverutil"
)

func (s Server) getTeams(w http.ResponseWriter, r *http.Request) error {
	teams, err := s.repo.Teams(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, teams)
}

type TeamReq struct {
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Country string `json:"country"`
}

func (req TeamReq) Validate() error {
	if req.Name == "" {
		return pserrs.E("name is required", pserrs.Detail{Field: "name", Error: "is required"}, http.StatusBadRequest)
	}

	return nil
}

func (s Server) postTeam(w http.ResponseWriter, r *http.Request) error {
	body, err := serverutil.DecodeValid[TeamReq](r.Body)
	if err != nil {
		return err
	}

	logo := body.Logo
	if logo == "" {
		logo = register.PlaceholderLogo
	}

	team, err := s.repo.InsertTeam(r.Context(), pitchside.Team{
		Name:    body.Name,
		Logo:    logo,
		Country: body.Country,
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, team)
}

type UpdateTeamReq struct {
	Name    *string `json:"name"`
	Logo    *string `json:"logo"`
	Country *string `json:"country"`
}

func (req UpdateTeamReq) Validate() error {
	if req.Name != nil && *req.Name == "" {
		return pserrs.E("name cannot be blank", pserrs.Detail{Field: "name", Error: "cannot be blank"}, http.StatusBadRequest)
	}

	return nil
}

func (s Server) putTeam(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	body, err := serverutil.DecodeValid[UpdateTeamReq](r.Body)
	if err != nil {
		return err
	}

	// Confirm it exists before issuing a partial update.
	if _, err := s.repo.Team(r.Context(), id); err != nil {
		return err
	}

	team, err := s.repo.UpdateTeam(r.Context(), id, pitchside.UpdateTeamArgs{
		Name:    body.Name,
		Logo:    body.Logo,
		Country: body.Country,
	})
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, team)
}

func (s Server) deleteTeam(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if _, err := s.repo.Team(r.Context(), id); err != nil {
		return err
	}
	if err := s.repo.DeleteTeam(r.Context(), id); err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

// pathID pulls a numeric path variable out of the route.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, pserrs.E("invalid id", http.StatusBadRequest)
	}

	return id, nil
}
