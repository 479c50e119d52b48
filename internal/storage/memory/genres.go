package memory

import (
	"context"
	"slices"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type GenreRepository struct {
	sync.RWMutex
	data map[uuid.UUID]models.Genre
}

func NewGenreRepository() *GenreRepository {
	return &GenreRepository{data: map[uuid.UUID]models.Genre{}}
}

func (r *GenreRepository) Insert(_ context.Context, genre *models.Genre) error {
	r.Lock()
	defer r.Unlock()
	if genre.RefID == uuid.Nil {
		genre.RefID = uuid.New()
	}
	if r.conflicts(genre) {
		return storage.ErrConflict
	}
	now := time.Now()
	genre.CreatedAt, genre.UpdatedAt = now, now
	r.data[genre.RefID] = *genre
	return nil
}

func (r *GenreRepository) conflicts(genre *models.Genre) bool {
	for refID, g := range r.data {
		if refID == genre.RefID {
			continue
		}
		if g.ID == genre.ID || strings.EqualFold(g.Name, genre.Name) {
			return true
		}
	}
	return false
}

func (r *GenreRepository) Get(_ context.Context, id int) (*models.Genre, error) {
	r.RLock()
	defer r.RUnlock()
	for _, g := range r.data {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *GenreRepository) GetByRefID(_ context.Context, refID uuid.UUID) (*models.Genre, error) {
	r.RLock()
	defer r.RUnlock()
	g, ok := r.data[refID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &g, nil
}

func (r *GenreRepository) GetByName(_ context.Context, name string) (*models.Genre, error) {
	r.RLock()
	defer r.RUnlock()
	for _, g := range r.data {
		if strings.EqualFold(g.Name, name) {
			return &g, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *GenreRepository) GetManyByIDs(_ context.Context, ids []int) ([]models.Genre, error) {
	r.RLock()
	defer r.RUnlock()
	genres := []models.Genre{}
	for _, g := range r.data {
		if slices.Contains(ids, g.ID) {
			genres = append(genres, g)
		}
	}
	sortGenres(genres)
	return genres, nil
}

func (r *GenreRepository) List(_ context.Context) ([]models.Genre, error) {
	r.RLock()
	defer r.RUnlock()
	genres := make([]models.Genre, 0, len(r.data))
	for _, g := range r.data {
		genres = append(genres, g)
	}
	sortGenres(genres)
	return genres, nil
}

func (r *GenreRepository) Update(_ context.Context, genre *models.Genre) (*models.Genre, error) {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.data[genre.RefID]; !ok {
		return nil, storage.ErrNotFound
	}
	if r.conflicts(genre) {
		return nil, storage.ErrConflict
	}
	updated := *genre
	updated.UpdatedAt = time.Now()
	r.data[genre.RefID] = updated
	return &updated, nil
}

func (r *GenreRepository) Delete(_ context.Context, refID uuid.UUID) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.data[refID]; !ok {
		return storage.ErrNotFound
	}
	delete(r.data, refID)
	return nil
}

func sortGenres(genres []models.Genre) {
	slices.SortFunc(genres, func(a, b models.Genre) int { return a.ID - b.ID })
}
