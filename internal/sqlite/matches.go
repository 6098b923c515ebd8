package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"

	"github.com/pitchside/pitchside/internal/pitchside"
)

// Matches returns every match ordered by kickoff, earliest first. The
// date-grouped reader view depends on this ordering.
func (r Repo) Matches(ctx context.Context) ([]pitchside.Match, error) {
	const q = `SELECT * FROM matches ORDER BY date, time;`

	var matches []pitchside.Match
	if err := r.db.SelectContext(ctx, &matches, q); err != nil {
		return nil, fmt.Errorf("error selecting matches: %s", err)
	}

	return matches, nil
}

func (r Repo) Match(ctx context.Context, id int64) (pitchside.Match, error) {
	const q = `SELECT * FROM matches WHERE id = ?;`

	var m pitchside.Match
	err := r.db.GetContext(ctx, &m, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return pitchside.Match{}, pitchside.ErrNotFound
	}
	if err != nil {
		return pitchside.Match{}, fmt.Errorf("error fetching match: %s", err)
	}

	return m, nil
}

func (r Repo) MatchBySlug(ctx context.Context, slug string) (pitchside.Match, error) {
	const q = `SELECT * FROM matches WHERE slug = ?;`

	var m pitchside.Match
	err := r.db.GetContext(ctx, &m, q, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return pitchside.Match{}, pitchside.ErrNotFound
	}
	if err != nil {
		return pitchside.Match{}, fmt.Errorf("error fetching match: %s", err)
	}

	return m, nil
}

func (r Repo) InsertMatch(ctx context.Context, m pitchside.Match) (pitchside.Match, error) {
	const q = `INSERT INTO matches
	(home_team_id, away_team_id, date, time, status, home_score, away_score,
	 stream_embed, lineups, blog_posts, league, slug)
	VALUES
	(:home_team_id, :away_team_id, :date, :time, :status, :home_score, :away_score,
	 :stream_embed, :lineups, :blog_posts, :league, :slug);`

	res, err := r.db.NamedExecContext(ctx, q, m)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return pitchside.Match{}, fmt.Errorf("match slug already exists: %w", pitchside.ErrConflict)
	}
	if err != nil {
		return pitchside.Match{}, fmt.Errorf("error inserting match: %s", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return pitchside.Match{}, fmt.Errorf("error getting match id: %s", err)
	}

	return r.Match(ctx, id)
}

func (r Repo) UpdateMatch(ctx context.Context, id int64, args pitchside.UpdateMatchArgs) (pitchside.Match, error) {
	q := sq.Update("matches")
	if args.HomeTeamID != nil {
		q = q.Set("home_team_id", *args.HomeTeamID)
	}
	if args.AwayTeamID != nil {
		q = q.Set("away_team_id", *args.AwayTeamID)
	}
	if args.Date != nil {
		q = q.Set("date", *args.Date)
	}
	if args.Time != nil {
		q = q.Set("time", *args.Time)
	}
	if args.Status != nil {
		q = q.Set("status", *args.Status)
	}
	if args.HomeScore != nil {
		q = q.Set("home_score", *args.HomeScore)
	}
	if args.AwayScore != nil {
		q = q.Set("away_score", *args.AwayScore)
	}
	if args.StreamEmbed != nil {
		q = q.Set("stream_embed", *args.StreamEmbed)
	}
	if args.Lineups != nil {
		q = q.Set("lineups", *args.Lineups)
	}
	if args.BlogPosts != nil {
		q = q.Set("blog_posts", *args.BlogPosts)
	}
	if args.League != nil {
		q = q.Set("league", *args.League)
	}
	q = q.Set("updated_at", time.Now().UTC())
	q = q.Where(sq.Eq{"id": id})

	query, qArgs, err := q.ToSql()
	if err != nil {
		return pitchside.Match{}, fmt.Errorf("error constructing sql: %s", err)
	}
	if _, err := r.db.ExecContext(ctx, query, qArgs...); err != nil {
		return pitchside.Match{}, fmt.Errorf("error executing match update: %s", err)
	}

	return r.Match(ctx, id)
}

func (r Repo) DeleteMatch(ctx context.Context, id int64) error {
	const q = `DELETE FROM matches WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("error deleting match: %s", err)
	}

	return nil
}
