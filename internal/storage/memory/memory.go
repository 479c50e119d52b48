// Package memory implements every repository in process memory. It backs the
// "memory" database driver and the service tests.
package memory

import (
	"context"
	"streamcatalog/proj/internal/domain/models"
	"strings"
)

type Storage struct {
	Genres         *GenreRepository
	Contents       *ContentRepository
	StreamingTypes *StreamingTypeRepository
	Users          *UserRepository
	History        *HistoryRepository
}

func New() *Storage {
	return &Storage{
		Genres:         NewGenreRepository(),
		Contents:       NewContentRepository(),
		StreamingTypes: NewStreamingTypeRepository(),
		Users:          NewUserRepository(),
		History:        NewHistoryRepository(),
	}
}

func (s *Storage) Ping(context.Context) error { return nil }

func (s *Storage) Close() {}

// renameRefs rewrites matching refs in place and reports whether any changed.
func renameRefs(refs []models.GenreReference, refID, name string) bool {
	changed := false
	for i := range refs {
		if refs[i].RefID == refID {
			refs[i].Name = name
			changed = true
		}
	}
	return changed
}

func hasRef(refs []models.GenreReference, refID string) bool {
	for _, r := range refs {
		if r.RefID == refID {
			return true
		}
	}
	return false
}

func hasGenreID(refs []models.GenreReference, id int) bool {
	for _, r := range refs {
		if r.ID == id {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// page slices items for the 1-based page of the given size.
func page[T any](items []T, pageNum, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
