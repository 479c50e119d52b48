//go:build integration

package models

import (
	"context"
	"fmt"
	"os/exec"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"streamcatalog/proj/internal/storage/postgres"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newTestModels(t *testing.T) *Models {
	t.Helper()
	ctx := context.Background()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "streamcatalog",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/streamcatalog?sslmode=disable", host, port.Port())
	db, err := postgres.New(ctx, dsn, 5, time.Minute)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))
	return New(db)
}

func TestGenreRenamePropagation(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	action := &models.Genre{ID: 28, Name: "Action"}
	drama := &models.Genre{ID: 18, Name: "Drama"}
	require.NoError(t, m.Genre.Insert(ctx, action))
	require.NoError(t, m.Genre.Insert(ctx, drama))
	assert.ErrorIs(t, m.Genre.Insert(ctx, &models.Genre{ID: 99, Name: "ACTION"}), storage.ErrConflict)

	found, err := m.Genre.GetManyByIDs(ctx, []int{18, 28, 404})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	content := &models.Content{
		Kind:  models.KindMovie,
		Title: "Heat",
		Genre: []models.GenreReference{action.Reference(), drama.Reference()},
	}
	require.NoError(t, m.Content.Insert(ctx, content))
	st := &models.StreamingType{Name: "Netflix", SupportedGenres: []models.GenreReference{action.Reference()}}
	require.NoError(t, m.StreamingType.Insert(ctx, st))

	n, err := m.Content.CountGenreRefs(ctx, action.RefID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := m.Content.RenameGenre(ctx, action.RefID.String(), "Action & Adventure")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
	updated, err = m.StreamingType.RenameGenre(ctx, action.RefID.String(), "Action & Adventure")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	got, err := m.Content.Get(ctx, content.ID)
	require.NoError(t, err)
	require.Len(t, got.Genre, 2)
	assert.Equal(t, "Action & Adventure", got.Genre[0].Name)
	assert.Equal(t, "Drama", got.Genre[1].Name)
	assert.Equal(t, int32(2), got.Version)

	gotST, err := m.StreamingType.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Action & Adventure", gotST.SupportedGenres[0].Name)
}

func TestContentListAndVersioning(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()
	comedy := &models.Genre{ID: 35, Name: "Comedy"}
	require.NoError(t, m.Genre.Insert(ctx, comedy))

	batch := []*models.Content{
		{Kind: models.KindMovie, Title: "Airplane!", Genre: []models.GenreReference{comedy.Reference()}},
		{Kind: models.KindSeries, Title: "The Office", Seasons: 9, Genre: []models.GenreReference{comedy.Reference()}},
		{Kind: models.KindMovie, Title: "Heat"},
	}
	require.NoError(t, m.Content.InsertMany(ctx, batch))

	f := filters.Filters{Page: 1, PageSize: 10, Sort: "-title", SortSafelist: []string{"id", "title"}}
	list, total, err := m.Content.List(ctx, filters.ContentFilter{GenreID: 35}, f)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "The Office", list[0].Title)

	list, total, err = m.Content.List(ctx, filters.ContentFilter{Title: "hea", Kind: models.KindMovie}, f)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Heat", list[0].Title)

	stale := *batch[2]
	batch[2].Title = "Heat (1995)"
	_, err = m.Content.Update(ctx, batch[2])
	require.NoError(t, err)
	_, err = m.Content.Update(ctx, &stale)
	assert.ErrorIs(t, err, storage.ErrEditConflict)

	require.NoError(t, m.Content.Delete(ctx, stale.ID))
	assert.ErrorIs(t, m.Content.Delete(ctx, stale.ID), storage.ErrNotFound)
}

func TestUsersAndHistory(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()

	user := &models.User{Username: "neo", Email: "neo@example.com", PasswordHash: []byte("hash"), Role: models.RoleUser}
	require.NoError(t, m.User.Insert(ctx, user))
	assert.ErrorIs(t, m.User.Insert(ctx, &models.User{Username: "other", Email: "NEO@example.com", PasswordHash: []byte("x"), Role: models.RoleUser}), storage.ErrConflict)

	got, err := m.User.GetByEmail(ctx, "Neo@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, []int{}, got.Preferences.FavoriteGenres)

	got, err = m.User.UpdatePreferences(ctx, user.ID, models.Preferences{FavoriteGenres: []int{35, 18}})
	require.NoError(t, err)
	assert.Equal(t, []int{35, 18}, got.Preferences.FavoriteGenres)

	content := &models.Content{Kind: models.KindMovie, Title: "Heat"}
	require.NoError(t, m.Content.Insert(ctx, content))
	for i := 0; i < 3; i++ {
		require.NoError(t, m.History.Insert(ctx, &models.WatchEntry{UserID: user.ID, ContentID: content.ID, MinutesWatched: 10}))
	}
	entries, total, err := m.History.ListForUser(ctx, user.ID, filters.Filters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, entries, 1)

	_, err = m.User.GetByID(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
