package users

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
)

const topGenresLimit = 5

type UserStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePreferences(ctx context.Context, id int64, prefs models.Preferences) (*models.User, error)
}

type HistoryStorage interface {
	Insert(ctx context.Context, entry *models.WatchEntry) error
	ListForUser(ctx context.Context, userID int64, f filters.Filters) ([]models.WatchEntry, int, error)
	AllForUser(ctx context.Context, userID int64) ([]models.WatchEntry, error)
}

type ContentLookup interface {
	Get(ctx context.Context, id int64) (*models.Content, error)
	GetMany(ctx context.Context, ids []int64) ([]models.Content, error)
}

type GenreResolver interface {
	ResolveIDs(ctx context.Context, ids []int) ([]models.GenreReference, error)
}

type UserService struct {
	log      *slog.Logger
	users    UserStorage
	history  HistoryStorage
	contents ContentLookup
	resolver GenreResolver
}

func New(log *slog.Logger, users UserStorage, history HistoryStorage, contents ContentLookup, resolver GenreResolver) *UserService {
	return &UserService{
		log:      log,
		users:    users,
		history:  history,
		contents: contents,
		resolver: resolver,
	}
}

// UpdatePreferences replaces the favorite genres of a user. Every id must name
// an existing genre; duplicates are collapsed keeping first-seen order.
func (s *UserService) UpdatePreferences(ctx context.Context, userID int64, favoriteGenres []int) (*models.User, error) {
	const op = "users.UserService.UpdatePreferences"
	log := s.log.With("op", op, "user_id", userID)
	refs, err := s.resolver.ResolveIDs(ctx, favoriteGenres)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	user, err := s.users.UpdatePreferences(ctx, userID, models.Preferences{FavoriteGenres: ids})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		log.Error("Error updating preferences", "errMsg", err.Error())
		return nil, err
	}
	return user, nil
}

type RecordViewParams struct {
	ContentID      int64
	MinutesWatched int32
	Completed      bool
}

func (s *UserService) RecordView(ctx context.Context, userID int64, params RecordViewParams) (*models.WatchEntry, error) {
	const op = "users.UserService.RecordView"
	log := s.log.With("op", op, "user_id", userID, "content_id", params.ContentID)
	if _, err := s.contents.Get(ctx, params.ContentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		log.Error("Error getting content", "errMsg", err.Error())
		return nil, err
	}
	entry := &models.WatchEntry{
		UserID:         userID,
		ContentID:      params.ContentID,
		MinutesWatched: params.MinutesWatched,
		Completed:      params.Completed,
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		log.Error("Error inserting watch entry", "errMsg", err.Error())
		return nil, err
	}
	return entry, nil
}

func (s *UserService) History(ctx context.Context, userID int64, f filters.Filters) ([]models.WatchEntry, filters.Metadata, error) {
	const op = "users.UserService.History"
	log := s.log.With("op", op, "user_id", userID)
	entries, total, err := s.history.ListForUser(ctx, userID, f)
	if err != nil {
		log.Error("Error listing history", "errMsg", err.Error())
		return nil, filters.Metadata{}, err
	}
	return entries, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

// Stats aggregates the whole watch history of a user. Genre counts use the
// genre references currently embedded in the watched contents.
func (s *UserService) Stats(ctx context.Context, userID int64) (*models.WatchStats, error) {
	const op = "users.UserService.Stats"
	log := s.log.With("op", op, "user_id", userID)
	entries, err := s.history.AllForUser(ctx, userID)
	if err != nil {
		log.Error("Error loading history", "errMsg", err.Error())
		return nil, err
	}
	stats := &models.WatchStats{TopGenres: []models.GenreCount{}}
	viewsByContent := make(map[int64]int, len(entries))
	for _, e := range entries {
		stats.TotalViews++
		stats.TotalMinutes += int64(e.MinutesWatched)
		if e.Completed {
			stats.Completed++
		}
		viewsByContent[e.ContentID]++
	}
	stats.DistinctContents = len(viewsByContent)
	if len(viewsByContent) == 0 {
		return stats, nil
	}

	ids := make([]int64, 0, len(viewsByContent))
	for id := range viewsByContent {
		ids = append(ids, id)
	}
	contents, err := s.contents.GetMany(ctx, ids)
	if err != nil {
		log.Error("Error loading watched contents", "errMsg", err.Error())
		return nil, err
	}
	counts := map[int]*models.GenreCount{}
	for _, c := range contents {
		for _, g := range c.Genre {
			gc, ok := counts[g.ID]
			if !ok {
				gc = &models.GenreCount{ID: g.ID, Name: g.Name}
				counts[g.ID] = gc
			}
			gc.Views += viewsByContent[c.ID]
		}
	}
	for _, gc := range counts {
		stats.TopGenres = append(stats.TopGenres, *gc)
	}
	slices.SortFunc(stats.TopGenres, func(a, b models.GenreCount) int {
		if c := cmp.Compare(b.Views, a.Views); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(stats.TopGenres) > topGenresLimit {
		stats.TopGenres = stats.TopGenres[:topGenresLimit]
	}
	return stats, nil
}
