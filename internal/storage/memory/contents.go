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

type ContentRepository struct {
	sync.RWMutex
	data   map[int64]models.Content
	nextID int64
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{data: map[int64]models.Content{}}
}

func (r *ContentRepository) Insert(_ context.Context, content *models.Content) error {
	r.Lock()
	defer r.Unlock()
	r.insert(content)
	return nil
}

// InsertMany stores every document under a single lock, so readers never see a partial batch.
func (r *ContentRepository) InsertMany(_ context.Context, contents []*models.Content) error {
	r.Lock()
	defer r.Unlock()
	for _, c := range contents {
		r.insert(c)
	}
	return nil
}

func (r *ContentRepository) insert(content *models.Content) {
	r.nextID++
	content.ID = r.nextID
	content.Version = 1
	content.CreatedAt = time.Now()
	content.Genre = models.CloneGenreRefs(content.Genre)
	stored := *content
	stored.Genre = models.CloneGenreRefs(content.Genre)
	r.data[content.ID] = stored
}

func (r *ContentRepository) Get(_ context.Context, id int64) (*models.Content, error) {
	r.RLock()
	defer r.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c.Genre = models.CloneGenreRefs(c.Genre)
	return &c, nil
}

func (r *ContentRepository) GetMany(_ context.Context, ids []int64) ([]models.Content, error) {
	r.RLock()
	defer r.RUnlock()
	contents := []models.Content{}
	for _, id := range ids {
		if c, ok := r.data[id]; ok {
			c.Genre = models.CloneGenreRefs(c.Genre)
			contents = append(contents, c)
		}
	}
	return contents, nil
}

func (r *ContentRepository) List(_ context.Context, filter filters.ContentFilter, f filters.Filters) ([]models.Content, int, error) {
	r.RLock()
	defer r.RUnlock()
	matched := []models.Content{}
	for _, c := range r.data {
		if filter.Title != "" && !containsFold(c.Title, filter.Title) {
			continue
		}
		if filter.Kind != "" && c.Kind != filter.Kind {
			continue
		}
		if filter.GenreID != 0 && !hasGenreID(c.Genre, filter.GenreID) {
			continue
		}
		c.Genre = models.CloneGenreRefs(c.Genre)
		matched = append(matched, c)
	}
	sortContents(matched, f)
	return page(matched, f.Page, f.PageSize), len(matched), nil
}

func sortContents(contents []models.Content, f filters.Filters) {
	column, desc := "id", false
	if f.Sort != "" {
		column, desc = f.SortColumn(), f.SortDirection() == filters.DescSort
	}
	slices.SortFunc(contents, func(a, b models.Content) int {
		var c int
		switch column {
		case "title":
			c = strings.Compare(a.Title, b.Title)
		case "release_year":
			c = cmp.Compare(a.ReleaseYear, b.ReleaseYear)
		case "runtime":
			c = cmp.Compare(a.Runtime, b.Runtime)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if desc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})
}

func (r *ContentRepository) Update(_ context.Context, content *models.Content) (*models.Content, error) {
	r.Lock()
	defer r.Unlock()
	current, ok := r.data[content.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if current.Version != content.Version {
		return nil, storage.ErrEditConflict
	}
	updated := *content
	updated.Version++
	updated.CreatedAt = current.CreatedAt
	updated.Genre = models.CloneGenreRefs(content.Genre)
	r.data[content.ID] = updated
	out := updated
	out.Genre = models.CloneGenreRefs(updated.Genre)
	return &out, nil
}

func (r *ContentRepository) Delete(_ context.Context, id int64) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.data[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *ContentRepository) RenameGenre(_ context.Context, refID string, name string) (int64, error) {
	r.Lock()
	defer r.Unlock()
	var updated int64
	for id, c := range r.data {
		if renameRefs(c.Genre, refID, name) {
			c.Version++
			r.data[id] = c
			updated++
		}
	}
	return updated, nil
}

func (r *ContentRepository) CountGenreRefs(_ context.Context, refID string) (int, error) {
	r.RLock()
	defer r.RUnlock()
	n := 0
	for _, c := range r.data {
		if hasRef(c.Genre, refID) {
			n++
		}
	}
	return n, nil
}
