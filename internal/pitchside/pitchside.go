// Package pitchside holds the domain model for the match listing
// service: teams, matches, live-blog posts, and the repository
// surfaces the storage layer implements.
package pitchside

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConflict = errors.New("resource already exists")
	ErrNotFound = errors.New("resource not found")
)

// MatchStatus is the internal status vocabulary. The external feed uses a
// wider vocabulary (SCHEDULED, TIMED, IN_PLAY, PAUSED, FINISHED, ...) that
// gets normalized at the filter boundary.
type MatchStatus string

const (
	StatusUpcoming MatchStatus = "upcoming"
	StatusLive     MatchStatus = "live"
	StatusFinished MatchStatus = "finished"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusFinished:
		return true
	}
	return false
}

type BlogPostType string

const (
	BlogPostGoal         BlogPostType = "goal"
	BlogPostCard         BlogPostType = "card"
	BlogPostSubstitution BlogPostType = "substitution"
	BlogPostGeneral      BlogPostType = "general"
)

func (t BlogPostType) Valid() bool {
	switch t {
	case BlogPostGoal, BlogPostCard, BlogPostSubstitution, BlogPostGeneral:
		return true
	}
	return false
}

type (
	// Team is a registered club, created either by an admin or by
	// auto-registration from the external feed.
	Team struct {
		ID      int64  `db:"id" json:"id"`
		Name    string `db:"name" json:"name"`
		Logo    string `db:"logo" json:"logo"`
		Country string `db:"country" json:"country"`
	}

	// Match is a published listing. Lineups and blog posts ride along as
	// JSON columns; they're small, bounded, and only ever read whole.
	Match struct {
		ID          int64       `db:"id" json:"id"`
		HomeTeamID  int64       `db:"home_team_id" json:"home_team_id"`
		AwayTeamID  int64       `db:"away_team_id" json:"away_team_id"`
		Date        string      `db:"date" json:"date"`
		Time        string      `db:"time" json:"time"`
		Status      MatchStatus `db:"status" json:"status"`
		HomeScore   int         `db:"home_score" json:"home_score"`
		AwayScore   int         `db:"away_score" json:"away_score"`
		StreamEmbed string      `db:"stream_embed" json:"stream_embed"`
		Lineups     Lineups     `db:"lineups" json:"lineups"`
		BlogPosts   BlogPosts   `db:"blog_posts" json:"blog_posts"`
		League      string      `db:"league" json:"league"`
		Slug        string      `db:"slug" json:"slug"`
		CreatedAt   time.Time   `db:"created_at" json:"created_at"`
		UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
	}

	Lineups struct {
		Home []string `json:"home"`
		Away []string `json:"away"`
	}

	// BlogPost is one live-blog update. The list on a match is append-only;
	// storage order is insertion order and the reader view reverses it.
	BlogPost struct {
		ID        int64        `json:"id"`
		Timestamp string       `json:"timestamp"`
		Content   string       `json:"content"`
		Type      BlogPostType `json:"type"`
	}

	BlogPosts []BlogPost

	// AdminUser is a credentialed admin. Passwords are stored as bcrypt
	// hashes, never plaintext.
	AdminUser struct {
		ID           int64      `db:"id" json:"id"`
		Email        string     `db:"email" json:"email"`
		PasswordHash string     `db:"password_hash" json:"-"`
		CreatedAt    time.Time  `db:"created_at" json:"created_at"`
		LastLogin    *time.Time `db:"last_login" json:"last_login"`
	}
)

// Value implements [driver.Valuer] so lineups persist as a JSON column.
func (l Lineups) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("error marshaling lineups: %w", err)
	}
	return string(b), nil
}

func (l *Lineups) Scan(src any) error {
	return scanJSON(src, l, "lineups")
}

func (p BlogPosts) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("error marshaling blog posts: %w", err)
	}
	return string(b), nil
}

func (p *BlogPosts) Scan(src any) error {
	return scanJSON(src, p, "blog posts")
}

func scanJSON(src, dst any, what string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), dst)
	case []byte:
		return json.Unmarshal(v, dst)
	default:
		return fmt.Errorf("cannot scan %T into %s", src, what)
	}
}

type (
	// Holds the optional fields for updating a team. Nil means "leave as is".
	UpdateTeamArgs struct {
		Name    *string
		Logo    *string
		Country *string
	}

	// Holds the optional fields for updating a match. Nil means "leave as
	// is". The slug is derived once at creation and never recomputed, so
	// it has no entry here.
	UpdateMatchArgs struct {
		HomeTeamID  *int64
		AwayTeamID  *int64
		Date        *string
		Time        *string
		Status      *MatchStatus
		HomeScore   *int
		AwayScore   *int
		StreamEmbed *string
		Lineups     *Lineups
		BlogPosts   *BlogPosts
		League      *string
	}

	TeamRepo interface {
		Teams(ctx context.Context) ([]Team, error)
		Team(ctx context.Context, id int64) (Team, error)
		TeamByName(ctx context.Context, name string) (Team, error)
		InsertTeam(ctx context.Context, t Team) (Team, error)
		EnsureTeam(ctx context.Context, t Team) (Team, error)
		UpdateTeam(ctx context.Context, id int64, args UpdateTeamArgs) (Team, error)
		DeleteTeam(ctx context.Context, id int64) error
	}

	MatchRepo interface {
		Matches(ctx context.Context) ([]Match, error)
		Match(ctx context.Context, id int64) (Match, error)
		MatchBySlug(ctx context.Context, slug string) (Match, error)
		InsertMatch(ctx context.Context, m Match) (Match, error)
		UpdateMatch(ctx context.Context, id int64, args UpdateMatchArgs) (Match, error)
		DeleteMatch(ctx context.Context, id int64) error
	}

	AdminRepo interface {
		AdminByEmail(ctx context.Context, email string) (AdminUser, error)
		InsertAdmin(ctx context.Context, email, passwordHash string) (AdminUser, error)
		TouchAdminLogin(ctx context.Context, id int64, at time.Time) error
	}

	Repository interface {
		TeamRepo
		MatchRepo
		AdminRepo
	}
)

// Slug derives the URL identifier for a match from the two team names and
// the year of the match date: "alpha-fc-vs-beta-united-2025". It is computed
// once at creation time and persisted; collisions between two fixtures of
// the same pairing in the same year are not disambiguated.
func Slug(home, away, date string) string {
	year := ""
	if t, err := time.Parse("2006-01-02", date); err == nil {
		year = strconv.Itoa(t.Year())
	}

	parts := []string{slugify(home) + "-vs-" + slugify(away)}
	if year != "" {
		parts = append(parts, year)
	}
	return strings.Join(parts, "-")
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

var srcPattern = regexp.MustCompile(`src="([^"]*)"`)

// StreamSrc pulls the iframe src out of an opaque embed snippet. The markup
// itself is never rendered; only the extracted URL is handed to the player.
func StreamSrc(embed string) string {
	m := srcPattern.FindStringSubmatch(embed)
	if m == nil {
		return ""
	}
	return m[1]
}
