package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"

	"github.com/pitchside/pitchside/internal/pitchside"
)

func (r Repo) Teams(ctx context.Context) ([]pitchside.Team, error) {
	const q = `SELECT * FROM teams ORDER BY name;`

	var teams []pitchside.Team
	if err := r.db.SelectContext(ctx, &teams, q); err != nil {
		return nil, fmt.Errorf("error selecting teams: %s", err)
	}

	return teams, nil
}

func (r Repo) Team(ctx context.Context, id int64) (pitchside.Team, error) {
	const q = `SELECT * FROM teams WHERE id = ?;`

	var team pitchside.Team
	err := r.db.GetContext(ctx, &team, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return pitchside.Team{}, pitchside.ErrNotFound
	}
	if err != nil {
		return pitchside.Team{}, fmt.Errorf("error fetching team: %s", err)
	}

	return team, nil
}

func (r Repo) TeamByName(ctx context.Context, name string) (pitchside.Team, error) {
	const q = `SELECT * FROM teams WHERE name = ?;`

	var team pitchside.Team
	err := r.db.GetContext(ctx, &team, q, name)
	if errors.Is(err, sql.ErrNoRows) {
		return pitchside.Team{}, pitchside.ErrNotFound
	}
	if err != nil {
		return pitchside.Team{}, fmt.Errorf("error fetching team: %s", err)
	}

	return team, nil
}

func (r Repo) InsertTeam(ctx context.Context, t pitchside.Team) (pitchside.Team, error) {
	const q = `INSERT INTO teams (name, logo, country) VALUES (:name, :logo, :country);`

	res, err := r.db.NamedExecContext(ctx, q, t)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return pitchside.Team{}, fmt.Errorf("team already exists: %w", pitchside.ErrConflict)
	}
	if err != nil {
		return pitchside.Team{}, fmt.Errorf("error inserting team: %s", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return pitchside.Team{}, fmt.Errorf("error getting team id: %s", err)
	}

	return r.Team(ctx, id)
}

// EnsureTeam inserts the team if its name is new, otherwise returns the
// existing row untouched. The name is the identity for auto-registration.
func (r Repo) EnsureTeam(ctx context.Context, t pitchside.Team) (pitchside.Team, error) {
	const q = `INSERT INTO teams (name, logo, country)
	VALUES (:name, :logo, :country)
	ON CONFLICT (name) DO NOTHING;`

	if _, err := r.db.NamedExecContext(ctx, q, t); err != nil {
		return pitchside.Team{}, fmt.Errorf("error ensuring team: %s", err)
	}

	return r.TeamByName(ctx, t.Name)
}

func (r Repo) UpdateTeam(ctx context.Context, id int64, args pitchside.UpdateTeamArgs) (pitchside.Team, error) {
	q := sq.Update("teams")
	if args.Name != nil {
		q = q.Set("name", *args.Name)
	}
	if args.Logo != nil {
		q = q.Set("logo", *args.Logo)
	}
	if args.Country != nil {
		q = q.Set("country", *args.Country)
	}
	q = q.Where(sq.Eq{"id": id})

	query, qArgs, err := q.ToSql()
	if err != nil {
		return pitchside.Team{}, fmt.Errorf("error constructing sql: %s", err)
	}
	_, err = r.db.ExecContext(ctx, query, qArgs...)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return pitchside.Team{}, fmt.Errorf("team name taken: %w", pitchside.ErrConflict)
	}
	if err != nil {
		return pitchside.Team{}, fmt.Errorf("error executing team update: %s", err)
	}

	return r.Team(ctx, id)
}

// DeleteTeam removes a team unless any match still references it as home
// or away side, in which case the delete is refused.
func (r Repo) DeleteTeam(ctx context.Context, id int64) error {
	const countQ = `SELECT COUNT(*) FROM matches WHERE home_team_id = ? OR away_team_id = ?;`

	var refs int
	if err := r.db.GetContext(ctx, &refs, countQ, id, id); err != nil {
		return fmt.Errorf("error counting match references: %s", err)
	}
	if refs > 0 {
		return fmt.Errorf("team is referenced by %d matches: %w", refs, pitchside.ErrConflict)
	}

	const q = `DELETE FROM teams WHERE id = ?;`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("error deleting team: %s", err)
	}

	return nil
}
