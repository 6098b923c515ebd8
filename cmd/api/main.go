// The api server hosts the public match listing endpoints and the
// session-gated admin endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	_ "golang.org/x/crypto/x509roots/fallback"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/pitchside/pitchside/internal/api"
	"github.com/pitchside/pitchside/internal/feed"
	"github.com/pitchside/pitchside/internal/migrations"
	psqlite "github.com/pitchside/pitchside/internal/sqlite"
	"github.com/pitchside/pitchside/logger"
)

type config struct {
	Database string `env:"DATABASE, required"`

	Port               int    `env:"PORT, default=4444"`
	HTTPSCookies       bool   `env:"HTTPS_COOKIES, default=false"`
	CookieHashKey      string `env:"COOKIE_HASH_KEY, required"`
	CookieBlockKey     string `env:"COOKIE_BLOCK_KEY"`
	CorsOrigin         string `env:"CORS_ORIGIN, default=http://localhost:3000"`
	FootballDataAPIKey string `env:"FOOTBALL_DATA_API_KEY"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Pick up a local .env if one exists, then parse the config.
	_ = godotenv.Load()
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(cfg.LoggerFormat))

	if err := run(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	// Connect to the sqlite db
	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_journal_mode=WAL&_busy_timeout=5000", cfg.Database))
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	// Migrate, always
	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	repo := psqlite.New(dbx)
	feedClient := feed.New(cfg.FootballDataAPIKey)

	s := api.NewServer(api.ServerConfig{
		Port:           cfg.Port,
		CookieHashKey:  []byte(cfg.CookieHashKey),
		CookieBlockKey: []byte(cfg.CookieBlockKey),
		HttpsCookies:   cfg.HTTPSCookies,
		CorsOrigin:     cfg.CorsOrigin,
	}, repo, feedClient)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "port", cfg.Port)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	})
	g.Go(func() error {
		// Block from shutting down until the group is canceled
		<-gCtx.Done()

		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error running: %s", err)
	}

	return nil
}
