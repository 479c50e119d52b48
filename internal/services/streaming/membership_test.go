package streaming

import (
	"context"
	"errors"
	"log/slog"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/services/genres"
	"streamcatalog/proj/internal/storage/memory"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service *StreamingService
	manager *MembershipManager
	genres  map[int]models.Genre
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	seeded := map[int]models.Genre{}
	for _, g := range []models.Genre{
		{ID: 1, Name: "Action", Poster: "https://img/action.png"},
		{ID: 2, Name: "Adventure"},
		{ID: 3, Name: "Comedy"},
	} {
		require.NoError(t, store.Genres.Insert(context.Background(), &g))
		seeded[g.ID] = g
	}
	resolver := genres.NewResolver(slog.Default(), store.Genres, false)
	service := New(slog.Default(), store.StreamingTypes, resolver)
	return &fixture{
		service: service,
		manager: NewMembershipManager(slog.Default(), service, store.Genres),
		genres:  seeded,
	}
}

func (f *fixture) ref(id int, name string) models.GenreReference {
	return models.GenreReference{RefID: f.genres[id].RefID.String(), ID: id, Name: name}
}

func (f *fixture) provider(t *testing.T, name string, genreIDs ...int) *models.StreamingType {
	t.Helper()
	st, err := f.service.Create(context.Background(), CreateParams{Name: name, Genres: fields.GenreIDs(genreIDs...)})
	require.NoError(t, err)
	return st
}

func TestAddGenresSetSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.provider(t, "Netflix")

	updated, err := f.manager.AddGenres(ctx, st.ID, []models.GenreReference{f.ref(1, "Action")})
	require.NoError(t, err)
	require.Len(t, updated.SupportedGenres, 1)
	assert.Equal(t, "https://img/action.png", updated.SupportedGenres[0].Poster)

	_, err = f.manager.AddGenres(ctx, st.ID, []models.GenreReference{f.ref(1, "Action")})
	assert.ErrorIs(t, err, ErrNothingToAdd)

	got, err := f.service.Get(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, got.SupportedGenres, 1)
	assert.Equal(t, 1, got.SupportedGenres[0].ID)

	updated, err = f.manager.AddGenres(ctx, st.ID, []models.GenreReference{
		f.ref(1, "action"), f.ref(2, "Adventure"), f.ref(2, "adventure"),
	})
	require.NoError(t, err)
	assert.Len(t, updated.SupportedGenres, 2)
}

func TestAddGenresMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.provider(t, "Netflix", 1)

	_, err := f.manager.AddGenres(ctx, st.ID, []models.GenreReference{f.ref(2, "Action")})
	var idMismatch *genres.GenreIDMismatchError
	require.True(t, errors.As(err, &idMismatch))
	assert.Equal(t, 2, idMismatch.CandidateID)
	assert.Equal(t, 1, idMismatch.StoredID)

	_, err = f.manager.AddGenres(ctx, st.ID, []models.GenreReference{f.ref(1, "Adventure")})
	var nameMismatch *genres.GenreNameMismatchError
	require.True(t, errors.As(err, &nameMismatch))
	assert.Equal(t, "Adventure", nameMismatch.CandidateName)
	assert.Equal(t, "Action", nameMismatch.StoredName)

	// no supported entry conflicts, but the store knows id 3 as Comedy
	_, err = f.manager.AddGenres(ctx, st.ID, []models.GenreReference{f.ref(3, "Horror")})
	require.True(t, errors.As(err, &nameMismatch))
	assert.Equal(t, "Comedy", nameMismatch.StoredName)

	wrongRef := f.ref(3, "Comedy")
	wrongRef.RefID = uuid.NewString()
	_, err = f.manager.AddGenres(ctx, st.ID, []models.GenreReference{wrongRef})
	assert.ErrorIs(t, err, ErrGenreRefMismatch)
}

func TestAddGenresNormalizesRefID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.provider(t, "Netflix")

	padded := f.ref(2, "Adventure")
	padded.RefID = "  " + strings.ToUpper(padded.RefID) + " "
	updated, err := f.manager.AddGenres(ctx, st.ID, []models.GenreReference{padded})
	require.NoError(t, err)
	require.Len(t, updated.SupportedGenres, 1)
	assert.Equal(t, f.genres[2].RefID.String(), updated.SupportedGenres[0].RefID)
}

func TestAddGenresValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.provider(t, "Hulu")

	testCases := []struct {
		name       string
		id         int64
		candidates []models.GenreReference
		wantErr    error
	}{
		{name: "unknown streaming type", id: 404, candidates: nil, wantErr: ErrStreamingTypeNotFound},
		{name: "empty", id: st.ID, candidates: nil, wantErr: ErrGenreRequired},
		{name: "missing ref id", id: st.ID, candidates: []models.GenreReference{{ID: 1, Name: "Action"}}, wantErr: ErrMissingGenreID},
		{name: "malformed ref id", id: st.ID, candidates: []models.GenreReference{{RefID: "64f1c0", ID: 1, Name: "Action"}}, wantErr: ErrInvalidIDFormat},
		{name: "unknown genre", id: st.ID, candidates: []models.GenreReference{{RefID: uuid.NewString(), ID: 99, Name: "Noir"}}, wantErr: genres.ErrGenreNotFound},
		{name: "same id different names", id: st.ID, candidates: []models.GenreReference{f.ref(2, "Adventure"), f.ref(2, "Comedy")}, wantErr: ErrDuplicateCategoryID},
		{name: "same name different ids", id: st.ID, candidates: []models.GenreReference{f.ref(2, "Adventure"), f.ref(3, "Adventure")}, wantErr: ErrDuplicateGenreName},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.manager.AddGenres(ctx, tc.id, tc.candidates)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	got, err := f.service.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SupportedGenres)
}

func TestRemoveGenresByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.provider(t, "Prime", 1, 2)

	updated, err := f.manager.RemoveGenresByName(ctx, st.ID, []string{"action"})
	require.NoError(t, err)
	require.Len(t, updated.SupportedGenres, 1)
	assert.Equal(t, "Adventure", updated.SupportedGenres[0].Name)

	again, err := f.manager.RemoveGenresByName(ctx, st.ID, []string{"ACTION", "Western"})
	require.NoError(t, err)
	assert.Equal(t, updated.Version, again.Version)
	assert.Len(t, again.SupportedGenres, 1)

	_, err = f.manager.RemoveGenresByName(ctx, 404, []string{"Action"})
	assert.ErrorIs(t, err, ErrStreamingTypeNotFound)
}

func TestStreamingTypeCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.provider(t, "Netflix", 3)
	assert.Equal(t, "Comedy", st.SupportedGenres[0].Name)

	_, err := f.service.Create(ctx, CreateParams{Name: "NETFLIX"})
	assert.ErrorIs(t, err, ErrStreamingTypeNameTaken)

	_, err = f.service.Create(ctx, CreateParams{Name: "Disney+", Genres: fields.GenreIDs(3, 8)})
	var unknown *genres.UnknownGenreIDsError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []int{8}, unknown.IDs)

	other := f.provider(t, "Apple TV")
	name := "netflix"
	_, err = f.service.Update(ctx, other.ID, UpdateParams{Name: &name})
	assert.ErrorIs(t, err, ErrStreamingTypeNameTaken)

	description := "Apple's streaming service"
	updated, err := f.service.Update(ctx, other.ID, UpdateParams{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, description, updated.Description)
	assert.Equal(t, int32(2), updated.Version)

	require.NoError(t, f.service.Delete(ctx, other.ID))
	assert.ErrorIs(t, f.service.Delete(ctx, other.ID), ErrStreamingTypeNotFound)
}
