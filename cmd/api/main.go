package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"sifnos_hotels/internal/adapters/events"
	"sifnos_hotels/internal/adapters/gemini"
	server "sifnos_hotels/internal/adapters/http_server"
	"sifnos_hotels/internal/adapters/observability"
	"sifnos_hotels/internal/adapters/partner"
	redisad "sifnos_hotels/internal/adapters/redis"
	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/domain"
	"sifnos_hotels/internal/shared"
	mysqlrepo "sifnos_hotels/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api", cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// cache + recently viewed share one redis pool
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis ping failed; cache reads will miss")
	}
	recent := redisad.NewRecentlyViewed(cache.Client())

	// booking events
	var publisher domain.EventPublisher = events.Discard{}
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable; booking events are dropped")
		} else {
			defer np.Close()
			publisher = np
		}
	}
	publisher = events.Instrumented{Next: publisher}

	// partner search
	var partnerClient domain.PartnerClient
	if cfg.Partner.Enabled() {
		pc, err := partner.New(partner.Config{
			ProxyURL:    cfg.Partner.ProxyURL,
			FunctionURL: cfg.Partner.FunctionURL,
			FunctionKey: cfg.Partner.FunctionKey,
			SiteID:      cfg.Partner.SiteID,
			APIKey:      cfg.Partner.APIKey,
			CityID:      cfg.Partner.CityID,
			Currency:    cfg.Partner.Currency,
			Language:    cfg.Partner.Language,
			MaxResults:  cfg.Partner.MaxResults,
			RPS:         cfg.Partner.RPS,
		})
		if err != nil {
			log.Warn().Err(err).Msg("partner client disabled")
		} else {
			partnerClient = pc
		}
	}

	// concierge model
	var generator domain.ReplyGenerator
	if cfg.Gemini.APIKey != "" {
		gc, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Warn().Err(err).Msg("gemini disabled; concierge uses templated replies")
		} else {
			defer gc.Close()
			generator = gc
		}
	}

	// deps
	repo := mysqlrepo.New(db)
	search := app.NewSearchService(repo, partnerClient, cache, cfg.CacheTTL)
	h := &server.Handlers{
		Query:     app.NewQueryService(repo, cache, cfg.CacheTTL),
		Search:    search,
		Guests:    app.NewGuestService(repo),
		Sessions:  app.NewBookingSessions(repo, publisher, cfg.AbandonTTL),
		Recent:    app.NewRecentlyViewedService(recent),
		Concierge: app.NewConcierge(search, generator),
	}

	// http
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Bool("partner", partnerClient != nil).Msg("API listening")
	if err := serve(ctx, httpSrv, 10*time.Second); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Int("pending_sessions", h.Sessions.Active()).Msg("API stopped")
}
