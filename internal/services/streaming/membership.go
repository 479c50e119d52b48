package streaming

import (
	"context"
	"fmt"
	"log/slog"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/services/genres"
	"strings"

	"github.com/google/uuid"
)

// MembershipManager maintains the set of genres a streaming type supports.
type MembershipManager struct {
	log     *slog.Logger
	service *StreamingService
	genres  genres.GenreLookup
}

func NewMembershipManager(log *slog.Logger, service *StreamingService, genreStore genres.GenreLookup) *MembershipManager {
	return &MembershipManager{
		log:     log,
		service: service,
		genres:  genreStore,
	}
}

// AddGenres adds the candidates that are not supported yet. Every candidate must
// carry a valid refId, exist in the genre store and agree with both the entries
// already supported and the store's current (id, name) pairing.
func (m *MembershipManager) AddGenres(ctx context.Context, id int64, candidates []models.GenreReference) (*models.StreamingType, error) {
	const op = "streaming.MembershipManager.AddGenres"
	log := m.log.With("op", op, "id", id)
	st, err := m.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrGenreRequired
	}
	stored, refIDs, err := m.lookup(ctx, candidates)
	if err != nil {
		log.Info("genre candidates rejected", "reason", err.Error())
		return nil, err
	}
	for _, c := range candidates {
		if err := checkAgainstSupported(st.SupportedGenres, c); err != nil {
			log.Info("genre candidates rejected", "reason", err.Error())
			return nil, err
		}
	}
	candidates, err = dedupeCandidates(candidates)
	if err != nil {
		return nil, err
	}
	added := 0
	for _, c := range candidates {
		g := stored[c.ID]
		if refIDs[c.RefID] != g.RefID {
			return nil, ErrGenreRefMismatch
		}
		if !strings.EqualFold(g.Name, c.Name) {
			return nil, &genres.GenreNameMismatchError{CandidateName: c.Name, StoredName: g.Name}
		}
		if supportsID(st.SupportedGenres, c.ID) {
			continue
		}
		st.SupportedGenres = append(st.SupportedGenres, g.Reference())
		added++
	}
	if added == 0 {
		return nil, ErrNothingToAdd
	}
	updated, err := m.service.save(ctx, st)
	if err != nil {
		return nil, err
	}
	log.Info("genres added", "added", added)
	return updated, nil
}

// lookup validates candidate identities and fetches their genres in one batch.
// The parsed refIds are returned keyed by the raw candidate value.
func (m *MembershipManager) lookup(ctx context.Context, candidates []models.GenreReference) (map[int]models.Genre, map[string]uuid.UUID, error) {
	ids := make([]int, 0, len(candidates))
	refIDs := make(map[string]uuid.UUID, len(candidates))
	for _, c := range candidates {
		raw := strings.TrimSpace(c.RefID)
		if raw == "" {
			return nil, nil, ErrMissingGenreID
		}
		refID, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, ErrInvalidIDFormat
		}
		refIDs[c.RefID] = refID
		ids = append(ids, c.ID)
	}
	found, err := m.genres.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int]models.Genre, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}
	for _, c := range candidates {
		if _, ok := byID[c.ID]; !ok {
			return nil, nil, fmt.Errorf("%w: id %d", genres.ErrGenreNotFound, c.ID)
		}
	}
	return byID, refIDs, nil
}

func checkAgainstSupported(supported []models.GenreReference, c models.GenreReference) error {
	for _, s := range supported {
		sameName := strings.EqualFold(s.Name, c.Name)
		switch {
		case sameName && s.ID != c.ID:
			return &genres.GenreIDMismatchError{CandidateID: c.ID, StoredID: s.ID}
		case !sameName && s.ID == c.ID:
			return &genres.GenreNameMismatchError{CandidateName: c.Name, StoredName: s.Name}
		}
	}
	return nil
}

// dedupeCandidates collapses exact repeats and rejects contradictory ones.
func dedupeCandidates(candidates []models.GenreReference) ([]models.GenreReference, error) {
	namesByID := make(map[int]string, len(candidates))
	idsByName := make(map[string]int, len(candidates))
	out := make([]models.GenreReference, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c.Name)
		if name, ok := namesByID[c.ID]; ok {
			if !strings.EqualFold(name, c.Name) {
				return nil, ErrDuplicateCategoryID
			}
			continue
		}
		if _, ok := idsByName[key]; ok {
			return nil, ErrDuplicateGenreName
		}
		namesByID[c.ID] = c.Name
		idsByName[key] = c.ID
		out = append(out, c)
	}
	return out, nil
}

func supportsID(supported []models.GenreReference, id int) bool {
	for _, s := range supported {
		if s.ID == id {
			return true
		}
	}
	return false
}

// RemoveGenresByName drops supported genres whose name matches ignoring case.
// Names that match nothing are ignored.
func (m *MembershipManager) RemoveGenresByName(ctx context.Context, id int64, names []string) (*models.StreamingType, error) {
	const op = "streaming.MembershipManager.RemoveGenresByName"
	log := m.log.With("op", op, "id", id, "names", names)
	st, err := m.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	kept := make([]models.GenreReference, 0, len(st.SupportedGenres))
	for _, g := range st.SupportedGenres {
		if !matchesAny(g.Name, names) {
			kept = append(kept, g)
		}
	}
	removed := len(st.SupportedGenres) - len(kept)
	if removed == 0 {
		return st, nil
	}
	st.SupportedGenres = kept
	updated, err := m.service.save(ctx, st)
	if err != nil {
		return nil, err
	}
	log.Info("genres removed", "removed", removed)
	return updated, nil
}

func matchesAny(name string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(name, strings.TrimSpace(n)) {
			return true
		}
	}
	return false
}
