package memory

import (
	"cmp"
	"context"
	"slices"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"strings"
	"sync"
	"time"
)

type StreamingTypeRepository struct {
	sync.RWMutex
	data   map[int64]models.StreamingType
	nextID int64
}

func NewStreamingTypeRepository() *StreamingTypeRepository {
	return &StreamingTypeRepository{data: map[int64]models.StreamingType{}}
}

func (r *StreamingTypeRepository) nameTaken(id int64, name string) bool {
	for otherID, st := range r.data {
		if otherID != id && strings.EqualFold(st.Name, name) {
			return true
		}
	}
	return false
}

func (r *StreamingTypeRepository) Insert(_ context.Context, st *models.StreamingType) error {
	r.Lock()
	defer r.Unlock()
	if r.nameTaken(0, st.Name) {
		return storage.ErrConflict
	}
	r.nextID++
	st.ID = r.nextID
	st.Version = 1
	st.CreatedAt = time.Now()
	st.SupportedGenres = models.CloneGenreRefs(st.SupportedGenres)
	stored := *st
	stored.SupportedGenres = models.CloneGenreRefs(st.SupportedGenres)
	r.data[st.ID] = stored
	return nil
}

func (r *StreamingTypeRepository) Get(_ context.Context, id int64) (*models.StreamingType, error) {
	r.RLock()
	defer r.RUnlock()
	st, ok := r.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	st.SupportedGenres = models.CloneGenreRefs(st.SupportedGenres)
	return &st, nil
}

func (r *StreamingTypeRepository) List(_ context.Context, f filters.Filters) ([]models.StreamingType, int, error) {
	r.RLock()
	defer r.RUnlock()
	all := make([]models.StreamingType, 0, len(r.data))
	for _, st := range r.data {
		st.SupportedGenres = models.CloneGenreRefs(st.SupportedGenres)
		all = append(all, st)
	}
	desc := f.Sort != "" && f.SortDirection() == filters.DescSort
	byName := f.Sort != "" && f.SortColumn() == "name"
	slices.SortFunc(all, func(a, b models.StreamingType) int {
		c := cmp.Compare(a.ID, b.ID)
		if byName {
			c = cmp.Or(strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), c)
		}
		if desc {
			return -c
		}
		return c
	})
	return page(all, f.Page, f.PageSize), len(all), nil
}

func (r *StreamingTypeRepository) Update(_ context.Context, st *models.StreamingType) (*models.StreamingType, error) {
	r.Lock()
	defer r.Unlock()
	current, ok := r.data[st.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if current.Version != st.Version {
		return nil, storage.ErrEditConflict
	}
	if r.nameTaken(st.ID, st.Name) {
		return nil, storage.ErrConflict
	}
	updated := *st
	updated.Version++
	updated.CreatedAt = current.CreatedAt
	updated.SupportedGenres = models.CloneGenreRefs(st.SupportedGenres)
	r.data[st.ID] = updated
	out := updated
	out.SupportedGenres = models.CloneGenreRefs(updated.SupportedGenres)
	return &out, nil
}

func (r *StreamingTypeRepository) Delete(_ context.Context, id int64) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.data[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *StreamingTypeRepository) RenameGenre(_ context.Context, refID string, name string) (int64, error) {
	r.Lock()
	defer r.Unlock()
	var updated int64
	for id, st := range r.data {
		if renameRefs(st.SupportedGenres, refID, name) {
			st.Version++
			r.data[id] = st
			updated++
		}
	}
	return updated, nil
}

func (r *StreamingTypeRepository) CountGenreRefs(_ context.Context, refID string) (int, error) {
	r.RLock()
	defer r.RUnlock()
	n := 0
	for _, st := range r.data {
		if hasRef(st.SupportedGenres, refID) {
			n++
		}
	}
	return n, nil
}
