package genres

import (
	"context"
	"errors"
	"log/slog"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage/memory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGenres(t *testing.T, repo *memory.GenreRepository, genres ...models.Genre) map[int]models.Genre {
	t.Helper()
	seeded := make(map[int]models.Genre, len(genres))
	for _, g := range genres {
		require.NoError(t, repo.Insert(context.Background(), &g))
		seeded[g.ID] = g
	}
	return seeded
}

func TestResolve(t *testing.T) {
	repo := memory.NewGenreRepository()
	seeded := seedGenres(t, repo,
		models.Genre{ID: 1, Name: "Action", Poster: "https://img/action.png"},
		models.Genre{ID: 2, Name: "Drama"},
	)
	resolver := NewResolver(slog.Default(), repo, false)
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		refs, err := resolver.Resolve(ctx, fields.GenreInput{})
		require.NoError(t, err)
		assert.Empty(t, refs)
		assert.NotNil(t, refs)

		refs, err = resolver.ResolveIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("ids deduplicated and canonical", func(t *testing.T) {
		refs, err := resolver.Resolve(ctx, fields.GenreIDs(2, 1, 2))
		require.NoError(t, err)
		assert.Equal(t, []models.GenreReference{
			{RefID: seeded[2].RefID.String(), ID: 2, Name: "Drama"},
			{RefID: seeded[1].RefID.String(), ID: 1, Name: "Action", Poster: "https://img/action.png"},
		}, refs)
	})

	t.Run("store name wins over supplied name", func(t *testing.T) {
		refs, err := resolver.Resolve(ctx, fields.GenrePairs(fields.GenrePair{ID: 1, Name: "Fighting"}))
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "Action", refs[0].Name)
	})

	t.Run("unknown ids listed", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, fields.GenreIDs(1, 1, 3, 2))
		var unknown *UnknownGenreIDsError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, []int{3}, unknown.IDs)

		_, err = resolver.Resolve(ctx, fields.GenreIDs(9, 1, 7, 9))
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, []int{7, 9}, unknown.IDs)
		assert.Equal(t, "unknown genre ids: 7, 9", err.Error())
	})
}

func TestResolveStrictNames(t *testing.T) {
	repo := memory.NewGenreRepository()
	seedGenres(t, repo, models.Genre{ID: 1, Name: "Action"})
	resolver := NewResolver(slog.Default(), repo, true)

	_, err := resolver.Resolve(context.Background(), fields.GenrePairs(fields.GenrePair{ID: 1, Name: "Adventure"}))
	var mismatch *GenreNameMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "Adventure", mismatch.CandidateName)
	assert.Equal(t, "Action", mismatch.StoredName)

	refs, err := resolver.Resolve(context.Background(), fields.GenrePairs(fields.GenrePair{ID: 1, Name: "action"}))
	require.NoError(t, err)
	assert.Equal(t, "Action", refs[0].Name)
}

type failingLookup struct{ err error }

func (f failingLookup) GetManyByIDs(context.Context, []int) ([]models.Genre, error) {
	return nil, f.err
}

func TestResolveStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	resolver := NewResolver(slog.Default(), failingLookup{err: boom}, false)
	_, err := resolver.ResolveIDs(context.Background(), []int{1})
	assert.ErrorIs(t, err, boom)
}
