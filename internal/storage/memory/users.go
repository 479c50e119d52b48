package memory

import (
	"context"
	"slices"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"strings"
	"sync"
	"time"
)

type UserRepository struct {
	sync.RWMutex
	data   map[int64]models.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{data: map[int64]models.User{}}
}

func (r *UserRepository) Insert(_ context.Context, user *models.User) error {
	r.Lock()
	defer r.Unlock()
	for _, u := range r.data {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return storage.ErrConflict
		}
	}
	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Preferences.FavoriteGenres == nil {
		user.Preferences.FavoriteGenres = []int{}
	}
	r.data[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.RLock()
	defer r.RUnlock()
	u, ok := r.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.RLock()
	defer r.RUnlock()
	for _, u := range r.data {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *UserRepository) UpdatePreferences(_ context.Context, id int64, prefs models.Preferences) (*models.User, error) {
	r.Lock()
	defer r.Unlock()
	u, ok := r.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.Preferences = models.Preferences{FavoriteGenres: append([]int{}, prefs.FavoriteGenres...)}
	u.UpdatedAt = time.Now()
	r.data[id] = u
	return &u, nil
}

type HistoryRepository struct {
	sync.RWMutex
	data   []models.WatchEntry
	nextID int64
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Insert(_ context.Context, entry *models.WatchEntry) error {
	r.Lock()
	defer r.Unlock()
	r.nextID++
	entry.ID = r.nextID
	if entry.WatchedAt.IsZero() {
		entry.WatchedAt = time.Now()
	}
	r.data = append(r.data, *entry)
	return nil
}

func (r *HistoryRepository) AllForUser(_ context.Context, userID int64) ([]models.WatchEntry, error) {
	r.RLock()
	defer r.RUnlock()
	entries := []models.WatchEntry{}
	for _, e := range r.data {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b models.WatchEntry) int {
		if c := b.WatchedAt.Compare(a.WatchedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return entries, nil
}

func (r *HistoryRepository) ListForUser(ctx context.Context, userID int64, f filters.Filters) ([]models.WatchEntry, int, error) {
	entries, err := r.AllForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return page(entries, f.Page, f.PageSize), len(entries), nil
}
