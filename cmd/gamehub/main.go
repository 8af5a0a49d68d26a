package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gamehub-dev/gamehub/db"
	"github.com/gamehub-dev/gamehub/internal/auth"
	"github.com/gamehub-dev/gamehub/internal/cache"
	"github.com/gamehub-dev/gamehub/internal/config"
	"github.com/gamehub-dev/gamehub/internal/handlers"
	"github.com/gamehub-dev/gamehub/internal/repository"
	"github.com/gamehub-dev/gamehub/internal/router"
	"github.com/gamehub-dev/gamehub/internal/services"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using process environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := db.ConnectDatabase(cfg.DBProvider, cfg.DatabaseDSN); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	err = db.SeedDefaults(db.DB, os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"))

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed defaults")
	}

	appCache := cache.New(cfg.CacheCapacity)
	issuer := auth.NewIssuer(cfg.JWT)

	userRepo := repository.NewUserRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	tagRepo := repository.NewTagRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)

	settingsService := services.NewSettingsService(settingsRepo, appCache)
	imageService := services.NewImageService(articleRepo, settingsService, appCache, cfg.Images, cfg.BackendURL)
	emailService := services.NewEmailService(cfg.SMTP)
	accountService := services.NewAccountService(userRepo, issuer)
	userService := services.NewUserService(userRepo, imageService, settingsService, emailService, cfg.FrontendURL, cfg.BackendURL)
	commentService := services.NewCommentService(commentRepo, userRepo, articleRepo)
	articleService := services.NewArticleService(articleRepo, commentRepo, tagRepo, userRepo, imageService, settingsService, cfg.Images)

	r := router.NewRouter(router.Handlers{
		Auth:     handlers.NewAuthHandler(accountService),
		Settings: handlers.NewSettingsHandler(settingsService),
		Articles: handlers.NewArticleHandler(articleService, imageService),
		Comments: handlers.NewCommentHandler(commentService),
		Users:    handlers.NewUserHandler(userService, cfg.FrontendURL),
		Search:   handlers.NewSearchHandler(articleService, commentService),
		Health:   handlers.NewHealthHandler(db.DB),
	}, issuer, userRepo, cfg.FrontendURL)

	log.Info().Str("port", cfg.Port).Msg("Starting server")

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
