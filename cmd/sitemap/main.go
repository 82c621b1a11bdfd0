package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/adapters/observability"
	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/shared"
	mysqlrepo "sifnos_hotels/internal/storage/mysql"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, "sitemap", cfg.LogLevel)
	log.Info().Str("base", cfg.SiteBaseURL).Str("out", cfg.SitemapOut).Msg("sitemap starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	body, err := app.BuildSitemap(ctx, mysqlrepo.New(db), cfg.SiteBaseURL, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("build sitemap failed")
	}

	tmp := cfg.SitemapOut + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		log.Fatal().Err(err).Msg("write sitemap failed")
	}
	if err := os.Rename(tmp, cfg.SitemapOut); err != nil {
		log.Fatal().Err(err).Msg("replace sitemap failed")
	}
	log.Info().Int("bytes", len(body)).Msg("sitemap written")
}
