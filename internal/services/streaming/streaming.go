package streaming

import (
	"context"
	"errors"
	"log/slog"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"strings"
)

type StreamingStorage interface {
	Insert(ctx context.Context, st *models.StreamingType) error
	Get(ctx context.Context, id int64) (*models.StreamingType, error)
	List(ctx context.Context, f filters.Filters) ([]models.StreamingType, int, error)
	Update(ctx context.Context, st *models.StreamingType) (*models.StreamingType, error)
	Delete(ctx context.Context, id int64) error
}

type GenreResolver interface {
	Resolve(ctx context.Context, in fields.GenreInput) ([]models.GenreReference, error)
}

type StreamingService struct {
	log      *slog.Logger
	storage  StreamingStorage
	resolver GenreResolver
}

func New(log *slog.Logger, storage StreamingStorage, resolver GenreResolver) *StreamingService {
	return &StreamingService{
		log:      log,
		storage:  storage,
		resolver: resolver,
	}
}

type CreateParams struct {
	Name        string
	Description string
	Thumbnail   string
	Genres      fields.GenreInput
}

func (s *StreamingService) Create(ctx context.Context, params CreateParams) (*models.StreamingType, error) {
	const op = "streaming.StreamingService.Create"
	log := s.log.With("op", op, "name", params.Name)
	refs, err := s.resolver.Resolve(ctx, params.Genres)
	if err != nil {
		log.Info("genre binding rejected", "reason", err.Error())
		return nil, err
	}
	st := &models.StreamingType{
		Name:            strings.TrimSpace(params.Name),
		Description:     params.Description,
		Thumbnail:       params.Thumbnail,
		SupportedGenres: refs,
	}
	if err := s.storage.Insert(ctx, st); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("streaming type already exists")
			return nil, ErrStreamingTypeNameTaken
		}
		log.Error(err.Error())
		return nil, err
	}
	return st, nil
}

func (s *StreamingService) Get(ctx context.Context, id int64) (*models.StreamingType, error) {
	const op = "streaming.StreamingService.Get"
	log := s.log.With("op", op, "id", id)
	st, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("streaming type not found")
			return nil, ErrStreamingTypeNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return st, nil
}

func (s *StreamingService) List(ctx context.Context, f filters.Filters) ([]models.StreamingType, filters.Metadata, error) {
	const op = "streaming.StreamingService.List"
	sts, total, err := s.storage.List(ctx, f)
	if err != nil {
		s.log.Error(err.Error(), "op", op)
		return nil, filters.Metadata{}, err
	}
	return sts, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

type UpdateParams struct {
	Name        *string
	Description *string
	Thumbnail   *string
}

func (s *StreamingService) Update(ctx context.Context, id int64, params UpdateParams) (*models.StreamingType, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		st.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		st.Description = *params.Description
	}
	if params.Thumbnail != nil {
		st.Thumbnail = *params.Thumbnail
	}
	return s.save(ctx, st)
}

func (s *StreamingService) save(ctx context.Context, st *models.StreamingType) (*models.StreamingType, error) {
	const op = "streaming.StreamingService.save"
	log := s.log.With("op", op, "id", st.ID)
	updated, err := s.storage.Update(ctx, st)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("streaming type name already taken", "name", st.Name)
			return nil, ErrStreamingTypeNameTaken
		case errors.Is(err, storage.ErrEditConflict):
			log.Info("edit conflict")
			return nil, ErrEditConflict
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrStreamingTypeNotFound
		}
		log.Error("Error updating streaming type: " + err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *StreamingService) Delete(ctx context.Context, id int64) error {
	const op = "streaming.StreamingService.Delete"
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrStreamingTypeNotFound
		}
		s.log.Error(err.Error(), "op", op, "id", id)
		return err
	}
	return nil
}
