package main

import (
	"context"
	"log/slog"
	"streamcatalog/proj/internal/config"
	"streamcatalog/proj/internal/lib/validator"
	"streamcatalog/proj/internal/services"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type BackgroundRunner interface {
	Shutdown(ctx context.Context) error
}

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	Services     *services.Services
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
	storage      Pinger
	background   BackgroundRunner
}

func NewApplication(
	cfg *config.Config,
	log *slog.Logger,
	services *services.Services,
	storage Pinger,
	background BackgroundRunner,
) *Application {
	queryDecoder := schema.NewDecoder()
	queryDecoder.IgnoreUnknownKeys(true)
	return &Application{
		cfg:          cfg,
		log:          log,
		validator:    validator.New(),
		queryDecoder: queryDecoder,
		Services:     services,
		storage:      storage,
		background:   background,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
