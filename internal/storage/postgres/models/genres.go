package models

import (
	"context"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const genreColumns = `ref_id, id, name, poster, created_at, updated_at`

type GenreModel struct {
	DB *pgxpool.Pool
}

func (m *GenreModel) Insert(ctx context.Context, genre *models.Genre) error {
	if genre.RefID == uuid.Nil {
		genre.RefID = uuid.New()
	}
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO genres (ref_id, id, name, poster) VALUES ($1, $2, $3, $4) RETURNING `+genreColumns,
		genre.RefID,
		genre.ID,
		genre.Name,
		genre.Poster,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return postgres.MapError(err)
	}
	*genre = inserted
	return nil
}

func (m *GenreModel) getOne(ctx context.Context, where string, arg any) (*models.Genre, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+genreColumns+` FROM genres WHERE `+where, arg)
	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &genre, nil
}

func (m *GenreModel) Get(ctx context.Context, id int) (*models.Genre, error) {
	return m.getOne(ctx, `id = $1`, id)
}

func (m *GenreModel) GetByRefID(ctx context.Context, refID uuid.UUID) (*models.Genre, error) {
	return m.getOne(ctx, `ref_id = $1`, refID)
}

func (m *GenreModel) GetByName(ctx context.Context, name string) (*models.Genre, error) {
	return m.getOne(ctx, `lower(name) = lower($1)`, name)
}

func (m *GenreModel) GetManyByIDs(ctx context.Context, ids []int) ([]models.Genre, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = ANY($1) ORDER BY id`, ids)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (m *GenreModel) List(ctx context.Context) ([]models.Genre, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+genreColumns+` FROM genres ORDER BY id`)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (m *GenreModel) Update(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE genres SET name = $1, poster = $2, updated_at = now()
		WHERE ref_id = $3 RETURNING `+genreColumns,
		genre.Name,
		genre.Poster,
		genre.RefID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &updated, nil
}

func (m *GenreModel) Delete(ctx context.Context, refID uuid.UUID) error {
	status, err := m.DB.Exec(ctx, `DELETE FROM genres WHERE ref_id = $1`, refID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows)
	}
	return nil
}
