package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"streamcatalog/proj/internal/api/tasks"
	"streamcatalog/proj/internal/clients/tmdb"
	"streamcatalog/proj/internal/config"
	"streamcatalog/proj/internal/lib/logger"
	"streamcatalog/proj/internal/mails"
	"streamcatalog/proj/internal/services"
	"streamcatalog/proj/internal/services/auth"
	"streamcatalog/proj/internal/services/genres"
	"streamcatalog/proj/internal/storage/memory"
	"streamcatalog/proj/internal/storage/postgres"
	"streamcatalog/proj/internal/storage/postgres/models"
	"time"
)

const version = "1.0.0"

type storageBackend interface {
	Pinger
	Close()
}

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	storage, repos, err := openStorage(cfg, log)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.DB.Driver, "errMsg", err.Error())
		os.Exit(1)
	}
	defer storage.Close()

	bgTasks := tasks.New(log, cfg.Tasks.Workers, cfg.Tasks.QueueSize)
	bgTasks.Run()

	svc := services.New(log, cfg, repos, bgTasks, newMailer(cfg, log), newMetadataProvider(cfg, log))
	app := NewApplication(cfg, log, svc, storage, bgTasks)
	if err := app.serve(); err != nil {
		log.Error("server stopped with error", "errMsg", err.Error())
		os.Exit(1)
	}
}

func openStorage(cfg *config.Config, log *slog.Logger) (storageBackend, services.Repositories, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Info("using in-memory storage")
		s := memory.New()
		return s, services.MemoryRepositories(s), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		return nil, services.Repositories{}, err
	}
	if cfg.DB.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, services.Repositories{}, err
		}
	}
	log.Info("database connection established")
	return s, services.PostgresRepositories(models.New(s)), nil
}

// logMailer stands in for SMTP when no host is configured.
type logMailer struct {
	log *slog.Logger
}

func (m logMailer) Send(recipient string, tmplName string, tmplData any) error {
	m.log.Info("smtp is not configured, mail skipped", "recipient", recipient, "template", tmplName)
	return nil
}

func newMailer(cfg *config.Config, log *slog.Logger) auth.MailProvider {
	if cfg.SMTP.Host == "" {
		return logMailer{log: log}
	}
	return mails.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Timeout,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		cfg.SMTP.Retries,
	)
}

func newMetadataProvider(cfg *config.Config, log *slog.Logger) genres.MetadataProvider {
	c := cfg.Clients.TMDB
	if c.Token == "" {
		log.Info("tmdb token is not set, genre sync disabled")
		return nil
	}
	return tmdb.New(log, tmdb.Config{
		BaseURL:     c.BaseURL,
		Token:       c.Token,
		Timeout:     c.Timeout,
		MaxFailures: c.MaxFailures,
		OpenTimeout: c.OpenTimeout,
	})
}
