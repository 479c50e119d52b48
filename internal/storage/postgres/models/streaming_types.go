package models

import (
	"context"
	"errors"
	"fmt"
	"streamcatalog/proj/internal/domain/filters"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"streamcatalog/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const streamingTypeColumns = `id, name, description, thumbnail, supported_genres, version, created_at`

type StreamingTypeModel struct {
	DB *pgxpool.Pool
}

func (m *StreamingTypeModel) Insert(ctx context.Context, st *models.StreamingType) error {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO streaming_types (name, description, thumbnail, supported_genres)
		VALUES ($1, $2, $3, $4) RETURNING `+streamingTypeColumns,
		st.Name,
		st.Description,
		st.Thumbnail,
		models.CloneGenreRefs(st.SupportedGenres),
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.StreamingType])
	if err != nil {
		return postgres.MapError(err)
	}
	*st = inserted
	return nil
}

func (m *StreamingTypeModel) Get(ctx context.Context, id int64) (*models.StreamingType, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+streamingTypeColumns+` FROM streaming_types WHERE id = $1`, id)
	st, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.StreamingType])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &st, nil
}

func (m *StreamingTypeModel) List(ctx context.Context, f filters.Filters) ([]models.StreamingType, int, error) {
	sortColumn, sortDirection := "id", filters.AscSort
	if f.Sort != "" {
		sortColumn, sortDirection = f.SortColumn(), f.SortDirection()
	}
	if sortColumn == "name" {
		sortColumn = "lower(name)"
	}
	query := fmt.Sprintf(`
	SELECT count(*) OVER() AS count, %s FROM streaming_types
	ORDER BY %s %s, id %s
	LIMIT $1 OFFSET $2
	`, streamingTypeColumns, sortColumn, sortDirection, sortDirection)
	rows, _ := m.DB.Query(ctx, query, f.Limit(), f.Offset())
	type row struct {
		Count int
		models.StreamingType
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	types := make([]models.StreamingType, 0, len(outputRows))
	for _, row := range outputRows {
		types = append(types, row.StreamingType)
	}
	totalRecords := 0
	if len(outputRows) > 0 {
		totalRecords = outputRows[0].Count
	}
	return types, totalRecords, nil
}

func (m *StreamingTypeModel) Update(ctx context.Context, st *models.StreamingType) (*models.StreamingType, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE streaming_types SET version = version + 1, name = $1, description = $2,
		thumbnail = $3, supported_genres = $4
		WHERE id = $5 AND version = $6 RETURNING `+streamingTypeColumns,
		st.Name,
		st.Description,
		st.Thumbnail,
		models.CloneGenreRefs(st.SupportedGenres),
		st.ID,
		st.Version,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.StreamingType])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, versionMismatch(ctx, m.DB, "streaming_types", st.ID)
		}
		return nil, postgres.MapError(err)
	}
	return &updated, nil
}

func (m *StreamingTypeModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, `DELETE FROM streaming_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *StreamingTypeModel) RenameGenre(ctx context.Context, refID string, name string) (int64, error) {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE streaming_types SET supported_genres = `+renameRefsExpr("supported_genres")+`, version = version + 1
		WHERE supported_genres `+refFilter,
		refID,
		name,
	)
	if err != nil {
		return 0, err
	}
	return status.RowsAffected(), nil
}

func (m *StreamingTypeModel) CountGenreRefs(ctx context.Context, refID string) (int, error) {
	var n int
	err := m.DB.QueryRow(ctx, `SELECT count(*) FROM streaming_types WHERE supported_genres `+refFilter, refID).Scan(&n)
	return n, err
}
