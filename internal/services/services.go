package services

import (
	"log/slog"
	"streamcatalog/proj/internal/config"
	"streamcatalog/proj/internal/services/auth"
	"streamcatalog/proj/internal/services/content"
	"streamcatalog/proj/internal/services/genres"
	"streamcatalog/proj/internal/services/streaming"
	"streamcatalog/proj/internal/services/users"
	"streamcatalog/proj/internal/storage/memory"
	pgmodels "streamcatalog/proj/internal/storage/postgres/models"
)

type ContentRepository interface {
	content.ContentStorage
	genres.GenreRefHolder
}

type StreamingTypeRepository interface {
	streaming.StreamingStorage
	genres.GenreRefHolder
}

type UserRepository interface {
	auth.UserStorage
	users.UserStorage
}

// Repositories is the storage backend the services run on.
type Repositories struct {
	Genres         genres.GenreStorage
	Contents       ContentRepository
	StreamingTypes StreamingTypeRepository
	Users          UserRepository
	History        users.HistoryStorage
}

func MemoryRepositories(s *memory.Storage) Repositories {
	return Repositories{
		Genres:         s.Genres,
		Contents:       s.Contents,
		StreamingTypes: s.StreamingTypes,
		Users:          s.Users,
		History:        s.History,
	}
}

func PostgresRepositories(m *pgmodels.Models) Repositories {
	return Repositories{
		Genres:         m.Genre,
		Contents:       m.Content,
		StreamingTypes: m.StreamingType,
		Users:          m.User,
		History:        m.History,
	}
}

type TaskExecutor interface {
	Add(task func())
}

type Services struct {
	Auth           *auth.AuthService
	Genres         *genres.GenreService
	Contents       *content.ContentService
	StreamingTypes *streaming.StreamingService
	Membership     *streaming.MembershipManager
	Users          *users.UserService
}

// New wires the services. metadata may be nil, which disables genre sync.
func New(
	log *slog.Logger,
	cfg *config.Config,
	repos Repositories,
	taskExecutor TaskExecutor,
	mailer auth.MailProvider,
	metadata genres.MetadataProvider,
) *Services {
	resolver := genres.NewResolver(log, repos.Genres, cfg.Genres.StrictNames)
	propagator := genres.NewPropagator(
		log,
		genres.Dependent{Name: "contents", Store: repos.Contents},
		genres.Dependent{Name: "streaming_types", Store: repos.StreamingTypes},
	)
	streamingTypes := streaming.New(log, repos.StreamingTypes, resolver)
	return &Services{
		Auth: auth.New(
			log,
			repos.Users,
			mailer,
			taskExecutor,
			cfg.Auth.JWTSecret,
			cfg.Auth.TokenTTL,
			cfg.Auth.AdminEmails,
		),
		Genres:         genres.New(log, repos.Genres, propagator, taskExecutor, metadata),
		Contents:       content.New(log, repos.Contents, content.NewBinder(resolver)),
		StreamingTypes: streamingTypes,
		Membership:     streaming.NewMembershipManager(log, streamingTypes, repos.Genres),
		Users:          users.New(log, repos.Users, repos.History, repos.Contents, resolver),
	}
}
