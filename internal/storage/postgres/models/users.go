package models

import (
	"context"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, password_hash, role, preferences, created_at, updated_at`

type UserModel struct {
	DB *pgxpool.Pool
}

func (m *UserModel) Insert(ctx context.Context, user *models.User) error {
	if user.Preferences.FavoriteGenres == nil {
		user.Preferences.FavoriteGenres = []int{}
	}
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO users (username, email, password_hash, role, preferences)
		VALUES ($1, $2, $3, $4, $5) RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Preferences,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return postgres.MapError(err)
	}
	*user = inserted
	return nil
}

func (m *UserModel) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &user, nil
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.getOne(ctx, `id = $1`, id)
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getOne(ctx, `lower(email) = lower($1)`, email)
}

func (m *UserModel) UpdatePreferences(ctx context.Context, id int64, prefs models.Preferences) (*models.User, error) {
	if prefs.FavoriteGenres == nil {
		prefs.FavoriteGenres = []int{}
	}
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE users SET preferences = $1, updated_at = now() WHERE id = $2 RETURNING `+userColumns,
		prefs,
		id,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &user, nil
}

const historyColumns = `id, user_id, content_id, minutes_watched, completed, watched_at`

type HistoryModel struct {
	DB *pgxpool.Pool
}

func (m *HistoryModel) Insert(ctx context.Context, entry *models.WatchEntry) error {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO watch_history (user_id, content_id, minutes_watched, completed)
		VALUES ($1, $2, $3, $4) RETURNING `+historyColumns,
		entry.UserID,
		entry.ContentID,
		entry.MinutesWatched,
		entry.Completed,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.WatchEntry])
	if err != nil {
		return postgres.MapError(err)
	}
	*entry = inserted
	return nil
}

func (m *HistoryModel) AllForUser(ctx context.Context, userID int64) ([]models.WatchEntry, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+historyColumns+` FROM watch_history WHERE user_id = $1 ORDER BY watched_at DESC, id DESC`,
		userID,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.WatchEntry])
}

func (m *HistoryModel) ListForUser(ctx context.Context, userID int64, f filters.Filters) ([]models.WatchEntry, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER() AS count, `+historyColumns+` FROM watch_history
		WHERE user_id = $1 ORDER BY watched_at DESC, id DESC LIMIT $2 OFFSET $3`,
		userID,
		f.Limit(),
		f.Offset(),
	)
	type row struct {
		Count int
		models.WatchEntry
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	entries := make([]models.WatchEntry, 0, len(outputRows))
	for _, row := range outputRows {
		entries = append(entries, row.WatchEntry)
	}
	totalRecords := 0
	if len(outputRows) > 0 {
		totalRecords = outputRows[0].Count
	}
	return entries, totalRecords, nil
}
