// Adminctl bootstraps admin accounts from the command line, since the
// first admin cannot be created through the gated API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/pitchside/pitchside/internal/migrations"
	psqlite "github.com/pitchside/pitchside/internal/sqlite"
	"github.com/pitchside/pitchside/logger"
)

type config struct {
	Database string `env:"DATABASE, required"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var (
		email    = flag.String("email", "", "email address for the new admin")
		password = flag.String("password", "", "password for the new admin")
	)
	flag.Parse()
	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(cfg.LoggerFormat))

	if err := run(ctx, cfg, *email, *password); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, email, password string) error {
	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_journal_mode=WAL&_busy_timeout=5000", cfg.Database))
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %s", err)
	}

	admin, err := psqlite.New(dbx).InsertAdmin(ctx, email, string(hash))
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	slog.Info("admin created", "id", admin.ID, "email", admin.Email)
	return nil
}
