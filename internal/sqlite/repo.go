package sqlite

import (
	"github.com/jmoiron/sqlx"

	"github.com/pitchside/pitchside/internal/pitchside"
)

// Ensure Repo implements the Repository interface
var _ pitchside.Repository = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}
