package genres

import (
	"context"
	"errors"
	"log/slog"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const propagationTimeout = 30 * time.Second

type GenreStorage interface {
	GenreLookup
	Insert(ctx context.Context, genre *models.Genre) error
	Get(ctx context.Context, id int) (*models.Genre, error)
	GetByRefID(ctx context.Context, refID uuid.UUID) (*models.Genre, error)
	GetByName(ctx context.Context, name string) (*models.Genre, error)
	List(ctx context.Context) ([]models.Genre, error)
	Update(ctx context.Context, genre *models.Genre) (*models.Genre, error)
	Delete(ctx context.Context, refID uuid.UUID) error
}

type TaskExecutor interface {
	Add(task func())
}

type ExternalGenre struct {
	ID   int
	Name string
}

type MetadataProvider interface {
	MovieGenres(ctx context.Context) ([]ExternalGenre, error)
	TVGenres(ctx context.Context) ([]ExternalGenre, error)
}

type GenreService struct {
	log        *slog.Logger
	storage    GenreStorage
	propagator *Propagator
	tasks      TaskExecutor
	metadata   MetadataProvider

	// one propagation at a time per refId
	propagationLocks sync.Map
}

// New builds the genre service. metadata may be nil, in which case Sync is disabled.
func New(
	log *slog.Logger,
	storage GenreStorage,
	propagator *Propagator,
	tasks TaskExecutor,
	metadata MetadataProvider,
) *GenreService {
	return &GenreService{
		log:        log,
		storage:    storage,
		propagator: propagator,
		tasks:      tasks,
		metadata:   metadata,
	}
}

func (s *GenreService) Get(ctx context.Context, id int) (*models.Genre, error) {
	const op = "genres.GenreService.Get"
	log := s.log.With("op", op, "id", id)
	genre, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(log, err)
	}
	return genre, nil
}

func (s *GenreService) GetByRefID(ctx context.Context, refID uuid.UUID) (*models.Genre, error) {
	const op = "genres.GenreService.GetByRefID"
	log := s.log.With("op", op, "refId", refID)
	genre, err := s.storage.GetByRefID(ctx, refID)
	if err != nil {
		return nil, s.mapNotFound(log, err)
	}
	return genre, nil
}

func (s *GenreService) GetByName(ctx context.Context, name string) (*models.Genre, error) {
	const op = "genres.GenreService.GetByName"
	log := s.log.With("op", op, "name", name)
	genre, err := s.storage.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, s.mapNotFound(log, err)
	}
	return genre, nil
}

func (s *GenreService) List(ctx context.Context) ([]models.Genre, error) {
	const op = "genres.GenreService.List"
	genres, err := s.storage.List(ctx)
	if err != nil {
		s.log.Error(err.Error(), "op", op)
		return nil, err
	}
	return genres, nil
}

func (s *GenreService) Create(ctx context.Context, id int, name, poster string) (*models.Genre, error) {
	const op = "genres.GenreService.Create"
	log := s.log.With("op", op, "id", id, "name", name)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidGenreName
	}
	genre := &models.Genre{
		RefID:  uuid.New(),
		ID:     id,
		Name:   name,
		Poster: strings.TrimSpace(poster),
	}
	if err := s.storage.Insert(ctx, genre); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("genre already exists")
			return nil, ErrGenreAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

type UpdateParams struct {
	Name   *string
	Poster *string
}

// Update patches a genre. A name change is propagated to embedded copies in
// the background once the genre itself is saved.
func (s *GenreService) Update(ctx context.Context, refID uuid.UUID, params UpdateParams) (*models.Genre, error) {
	const op = "genres.GenreService.Update"
	log := s.log.With("op", op, "refId", refID)
	genre, err := s.GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	renamed := false
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrInvalidGenreName
		}
		renamed = name != genre.Name
		genre.Name = name
	}
	if params.Poster != nil {
		genre.Poster = strings.TrimSpace(*params.Poster)
	}
	updated, err := s.storage.Update(ctx, genre)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("genre name already taken", "name", genre.Name)
			return nil, ErrGenreAlreadyExists
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrGenreNotFound
		}
		log.Error("Error updating genre: " + err.Error())
		return nil, err
	}
	if renamed {
		s.schedulePropagation(updated.RefID)
	}
	return updated, nil
}

// schedulePropagation queues a task that copies the stored name of the genre
// into its embedded references. The name is read when the task runs, under a
// per-genre lock, so the last rename wins.
func (s *GenreService) schedulePropagation(refID uuid.UUID) {
	s.tasks.Add(func() {
		const op = "genres.GenreService.propagate"
		log := s.log.With("op", op, "refId", refID)
		lock, _ := s.propagationLocks.LoadOrStore(refID, &sync.Mutex{})
		mu := lock.(*sync.Mutex)
		mu.Lock()
		defer mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), propagationTimeout)
		defer cancel()
		genre, err := s.storage.GetByRefID(ctx, refID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Info("genre deleted before propagation")
				return
			}
			log.Error("failed to load genre for propagation", "errMsg", err.Error())
			return
		}
		// failures are logged and counted by the propagator; the rename itself already succeeded
		_ = s.propagator.Propagate(ctx, refID, genre.Name)
	})
}

// Delete removes a genre that nothing references any more.
func (s *GenreService) Delete(ctx context.Context, refID uuid.UUID) error {
	const op = "genres.GenreService.Delete"
	log := s.log.With("op", op, "refId", refID)
	if _, err := s.GetByRefID(ctx, refID); err != nil {
		return err
	}
	refs, err := s.propagator.References(ctx, refID)
	if err != nil {
		log.Error("failed to count genre references", "errMsg", err.Error())
		return err
	}
	if refs > 0 {
		log.Info("genre still referenced", "references", refs)
		return ErrGenreInUse
	}
	if err := s.storage.Delete(ctx, refID); err != nil {
		return s.mapNotFound(log, err)
	}
	return nil
}

type SyncResult struct {
	Created   int `json:"created"`
	Renamed   int `json:"renamed"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// Sync pulls movie and TV genres from the metadata provider, inserting unknown
// ids and renaming genres whose name changed upstream.
func (s *GenreService) Sync(ctx context.Context) (*SyncResult, error) {
	const op = "genres.GenreService.Sync"
	log := s.log.With("op", op)
	if s.metadata == nil {
		return nil, ErrMetadataDisabled
	}
	movieGenres, err := s.metadata.MovieGenres(ctx)
	if err != nil {
		log.Error("failed to fetch movie genres", "errMsg", err.Error())
		return nil, err
	}
	tvGenres, err := s.metadata.TVGenres(ctx)
	if err != nil {
		log.Error("failed to fetch tv genres", "errMsg", err.Error())
		return nil, err
	}
	result := &SyncResult{}
	seen := make(map[int]struct{})
	for _, ext := range append(movieGenres, tvGenres...) {
		if _, ok := seen[ext.ID]; ok {
			continue
		}
		seen[ext.ID] = struct{}{}
		if err := s.syncOne(ctx, ext, result); err != nil {
			return nil, err
		}
	}
	log.Info("genres synced",
		"created", result.Created, "renamed", result.Renamed,
		"unchanged", result.Unchanged, "skipped", result.Skipped,
	)
	return result, nil
}

func (s *GenreService) syncOne(ctx context.Context, ext ExternalGenre, result *SyncResult) error {
	existing, err := s.Get(ctx, ext.ID)
	switch {
	case errors.Is(err, ErrGenreNotFound):
		_, err = s.Create(ctx, ext.ID, ext.Name, "")
		if errors.Is(err, ErrGenreAlreadyExists) {
			result.Skipped++
			return nil
		}
		if err == nil {
			result.Created++
		}
		return err
	case err != nil:
		return err
	}
	if existing.Name == strings.TrimSpace(ext.Name) {
		result.Unchanged++
		return nil
	}
	name := ext.Name
	_, err = s.Update(ctx, existing.RefID, UpdateParams{Name: &name})
	if errors.Is(err, ErrGenreAlreadyExists) {
		result.Skipped++
		return nil
	}
	if err == nil {
		result.Renamed++
	}
	return err
}

func (s *GenreService) mapNotFound(log *slog.Logger, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("genre not found")
		return ErrGenreNotFound
	}
	log.Error(err.Error())
	return err
}
