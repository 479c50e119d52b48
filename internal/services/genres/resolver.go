package genres

import (
	"context"
	"log/slog"
	"slices"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/domain/models"
	"strings"
)

type GenreLookup interface {
	GetManyByIDs(ctx context.Context, ids []int) ([]models.Genre, error)
}

// Resolver validates genre input against the genre store and turns it into
// canonical references. Names always come from the store.
type Resolver struct {
	log         *slog.Logger
	store       GenreLookup
	strictNames bool
}

// NewResolver builds a Resolver. With strictNames set, object-shaped input whose
// name disagrees with the store is rejected instead of being overridden.
func NewResolver(log *slog.Logger, store GenreLookup, strictNames bool) *Resolver {
	return &Resolver{
		log:         log,
		store:       store,
		strictNames: strictNames,
	}
}

func (r *Resolver) Resolve(ctx context.Context, in fields.GenreInput) ([]models.GenreReference, error) {
	const op = "genres.Resolver.Resolve"
	log := r.log.With("op", op)
	if in.IsEmpty() {
		return []models.GenreReference{}, nil
	}
	ids := uniqueIDs(in.IDs())
	found, err := r.FindMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, pair := range in.Pairs() {
		stored := found[pair.ID]
		if strings.EqualFold(stored.Name, pair.Name) {
			continue
		}
		if r.strictNames {
			return nil, &GenreNameMismatchError{CandidateName: pair.Name, StoredName: stored.Name}
		}
		log.Warn("genre name overridden by store", "id", pair.ID, "given", pair.Name, "stored", stored.Name)
	}
	refs := make([]models.GenreReference, 0, len(ids))
	for _, id := range ids {
		g := found[id]
		refs = append(refs, g.Reference())
	}
	return refs, nil
}

// ResolveIDs is Resolve for the bare-ids variant.
func (r *Resolver) ResolveIDs(ctx context.Context, ids []int) ([]models.GenreReference, error) {
	return r.Resolve(ctx, fields.GenreIDs(ids...))
}

// FindMany looks ids up in one batch and fails with *UnknownGenreIDsError
// naming every id the store does not know.
func (r *Resolver) FindMany(ctx context.Context, ids []int) (map[int]models.Genre, error) {
	const op = "genres.Resolver.FindMany"
	log := r.log.With("op", op)
	ids = uniqueIDs(ids)
	genres, err := r.store.GetManyByIDs(ctx, ids)
	if err != nil {
		log.Error("failed to look up genres", "errMsg", err.Error())
		return nil, err
	}
	found := make(map[int]models.Genre, len(genres))
	for _, g := range genres {
		found[g.ID] = g
	}
	var missing []int
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		log.Info("unknown genre ids", "ids", missing)
		return nil, &UnknownGenreIDsError{IDs: missing}
	}
	return found, nil
}

// uniqueIDs drops duplicates keeping first-seen order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
