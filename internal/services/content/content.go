package content

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

type ContentStorage interface {
	Insert(ctx context.Context, content *models.Content) error
	InsertMany(ctx context.Context, contents []*models.Content) error
	Get(ctx context.Context, id int64) (*models.Content, error)
	GetMany(ctx context.Context, ids []int64) ([]models.Content, error)
	List(ctx context.Context, filter filters.ContentFilter, f filters.Filters) ([]models.Content, int, error)
	Update(ctx context.Context, content *models.Content) (*models.Content, error)
	Delete(ctx context.Context, id int64) error
}

type ContentService struct {
	log     *slog.Logger
	storage ContentStorage
	binder  *Binder
}

func New(log *slog.Logger, storage ContentStorage, binder *Binder) *ContentService {
	return &ContentService{
		log:     log,
		storage: storage,
		binder:  binder,
	}
}

type CreateParams struct {
	Kind        string
	Title       string
	Description string
	ReleaseYear int32
	Runtime     fields.Runtime
	Seasons     int32
	Poster      string
	Genre       fields.GenreInput
}

func (p CreateParams) document() (*models.Content, error) {
	kind := strings.ToLower(strings.TrimSpace(p.Kind))
	if kind == "" {
		kind = models.KindMovie
	}
	if kind != models.KindMovie && kind != models.KindSeries {
		return nil, ErrInvalidKind
	}
	return &models.Content{
		Kind:        kind,
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		ReleaseYear: p.ReleaseYear,
		Runtime:     p.Runtime,
		Seasons:     p.Seasons,
		Poster:      p.Poster,
	}, nil
}

func (s *ContentService) Get(ctx context.Context, id int64) (*models.Content, error) {
	const op = "content.ContentService.Get"
	log := s.log.With("op", op, "id", id)
	content, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("content not found")
			return nil, ErrContentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return content, nil
}

func (s *ContentService) Create(ctx context.Context, params CreateParams) (*models.Content, error) {
	const op = "content.ContentService.Create"
	log := s.log.With("op", op, "title", params.Title, "kind", params.Kind)
	doc, err := params.document()
	if err != nil {
		return nil, err
	}
	if err := s.binder.Bind(ctx, doc, params.Genre); err != nil {
		log.Info("genre binding rejected", "reason", err.Error())
		return nil, err
	}
	if err := s.storage.Insert(ctx, doc); err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return doc, nil
}

// InsertMany writes all documents or none of them.
func (s *ContentService) InsertMany(ctx context.Context, params []CreateParams) ([]*models.Content, error) {
	const op = "content.ContentService.InsertMany"
	log := s.log.With("op", op, "count", len(params))
	if len(params) == 0 {
		return nil, ErrEmptyBatch
	}
	docs := make([]*models.Content, 0, len(params))
	inputs := make([]fields.GenreInput, 0, len(params))
	for _, p := range params {
		doc, err := p.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		inputs = append(inputs, p.Genre)
	}
	if err := s.binder.BindMany(ctx, docs, inputs); err != nil {
		log.Info("genre binding rejected", "reason", err.Error())
		return nil, err
	}
	if err := s.storage.InsertMany(ctx, docs); err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return docs, nil
}

func (s *ContentService) List(ctx context.Context, filter filters.ContentFilter, f filters.Filters) ([]models.Content, filters.Metadata, error) {
	const op = "content.ContentService.List"
	log := s.log.With("op", op)
	contents, total, err := s.storage.List(ctx, filter, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return contents, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

type UpdateParams struct {
	Title       *string
	Description *string
	ReleaseYear *int32
	Runtime     *fields.Runtime
	Seasons     *int32
	Poster      *string
	Genre       *fields.GenreInput
}

func (s *ContentService) Update(ctx context.Context, id int64, params UpdateParams) (*models.Content, error) {
	const op = "content.ContentService.Update"
	log := s.log.With("op", op, "id", id)
	content, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		content.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		content.Description = *params.Description
	}
	if params.ReleaseYear != nil {
		content.ReleaseYear = *params.ReleaseYear
	}
	if params.Runtime != nil {
		content.Runtime = *params.Runtime
	}
	if params.Seasons != nil {
		content.Seasons = *params.Seasons
	}
	if params.Poster != nil {
		content.Poster = *params.Poster
	}
	if params.Genre != nil {
		if err := s.binder.Bind(ctx, content, *params.Genre); err != nil {
			log.Info("genre binding rejected", "reason", err.Error())
			return nil, err
		}
	}
	updated, err := s.storage.Update(ctx, content)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEditConflict):
			log.Info("edit conflict")
			return nil, ErrEditConflict
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrContentNotFound
		}
		log.Error("Error updating content: " + err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ContentService) Delete(ctx context.Context, id int64) error {
	const op = "content.ContentService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrContentNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
