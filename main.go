package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tripmate-app/backend/internal/auth"
	"github.com/tripmate-app/backend/internal/config"
	"github.com/tripmate-app/backend/internal/models"
	"github.com/tripmate-app/backend/internal/router"
)

func main() {
	cfg, err := config.Load(os.Getenv("TRIPMATE_CONFIG"))
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.Server.Mode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.Log.Format == "" && gin.IsDebugging()) || cfg.Log.Format == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create the directory for the database file
	dsn := cfg.Database.DSN
	if dsn != ":memory:" {
		err := os.MkdirAll(filepath.Dir(dsn), os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		dsn += "?_pragma=foreign_keys(1)"
	}

	err = models.Connect(dsn)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	apiURL, err := url.Parse(cfg.Server.APIURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, err := router.Config(apiURL, *cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	tokens := auth.New(cfg.JWT.Secret, cfg.JWT.ExpireTime)
	router.AttachRoutes(r.Group(apiURL.Path), *cfg, tokens)

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
