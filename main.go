package main

import (
	"fmt"
	"os"
	"time"

	"be04/models"
	"be04/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	cfg := loadConfig()
	initLogger(cfg.Env)

	if cfg.DatabaseDSN == "" {
		log.Fatal().Msg("DB_DSN is not set. This server requires a Postgres DSN in DB_DSN.")
	}
	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := migrateDB(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// Support a lightweight migrate command: `./be04 migrate` runs the schema
	// migration and exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		fmt.Println("migration completed")
		return
	}

	tokens := token.NewService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	auth := NewAuthService(NewGormUserStore(db), tokens)
	a := newAPI(auth, tokens, NewGormCrudStore[models.Post](db), NewGormCrudStore[models.Comment](db))

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metricsMiddleware())
	r.Use(corsMiddleware(cfg.Env))
	r.Use(rateLimit(rate.Every(time.Second/20), 40))
	a.routes(r)

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func initLogger(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "dev" {
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(cw).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
