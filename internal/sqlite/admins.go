package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"

	"github.com/pitchside/pitchside/internal/pitchside"
)

func (r Repo) AdminByEmail(ctx context.Context, email string) (pitchside.AdminUser, error) {
	const q = `SELECT * FROM admin_users WHERE email = ?;`

	var admin pitchside.AdminUser
	err := r.db.GetContext(ctx, &admin, q, email)
	if errors.Is(err, sql.ErrNoRows) {
		return pitchside.AdminUser{}, pitchside.ErrNotFound
	}
	if err != nil {
		return pitchside.AdminUser{}, fmt.Errorf("error fetching admin: %s", err)
	}

	return admin, nil
}

func (r Repo) InsertAdmin(ctx context.Context, email, passwordHash string) (pitchside.AdminUser, error) {
	const q = `INSERT INTO admin_users (email, password_hash) VALUES (?, ?);`

	_, err := r.db.ExecContext(ctx, q, email, passwordHash)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return pitchside.AdminUser{}, fmt.Errorf("admin already exists: %w", pitchside.ErrConflict)
	}
	if err != nil {
		return pitchside.AdminUser{}, fmt.Errorf("error inserting admin: %s", err)
	}

	return r.AdminByEmail(ctx, email)
}

func (r Repo) TouchAdminLogin(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE admin_users SET last_login = ? WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, at, id); err != nil {
		return fmt.Errorf("error recording login: %s", err)
	}

	return nil
}
