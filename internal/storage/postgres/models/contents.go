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

const contentColumns = `id, kind, title, description, release_year, runtime, seasons, poster, genre, version, created_at`

// refFilter matches rows whose embedded genre array holds an element with the given refId.
const refFilter = `@> jsonb_build_array(jsonb_build_object('refId', $1::text))`

// renameRefsExpr rewrites the name of every element of column carrying refId $1 to $2,
// preserving element order.
func renameRefsExpr(column string) string {
	return fmt.Sprintf(`(
		SELECT jsonb_agg(
			CASE WHEN elem->>'refId' = $1::text THEN jsonb_set(elem, '{name}', to_jsonb($2::text)) ELSE elem END
			ORDER BY ord
		)
		FROM jsonb_array_elements(%s) WITH ORDINALITY AS t(elem, ord)
	)`, column)
}

type ContentModel struct {
	DB *pgxpool.Pool
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func insertContent(ctx context.Context, q queryer, content *models.Content) error {
	rows, _ := q.Query(
		ctx,
		`INSERT INTO contents (kind, title, description, release_year, runtime, seasons, poster, genre)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+contentColumns,
		content.Kind,
		content.Title,
		content.Description,
		content.ReleaseYear,
		content.Runtime,
		content.Seasons,
		content.Poster,
		models.CloneGenreRefs(content.Genre),
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Content])
	if err != nil {
		return postgres.MapError(err)
	}
	*content = inserted
	return nil
}

func (m *ContentModel) Insert(ctx context.Context, content *models.Content) error {
	return insertContent(ctx, m.DB, content)
}

// InsertMany stores every document in one transaction.
func (m *ContentModel) InsertMany(ctx context.Context, contents []*models.Content) error {
	return pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		for _, c := range contents {
			if err := insertContent(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *ContentModel) Get(ctx context.Context, id int64) (*models.Content, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = $1`, id)
	content, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Content])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &content, nil
}

func (m *ContentModel) GetMany(ctx context.Context, ids []int64) ([]models.Content, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ANY($1) ORDER BY id`, ids)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Content])
}

func (m *ContentModel) List(ctx context.Context, filter filters.ContentFilter, f filters.Filters) ([]models.Content, int, error) {
	sortColumn, sortDirection := "id", filters.AscSort
	if f.Sort != "" {
		sortColumn, sortDirection = f.SortColumn(), f.SortDirection()
	}
	query := fmt.Sprintf(`
	SELECT count(*) OVER() AS count, %s FROM contents
	WHERE (title ILIKE '%%' || $1 || '%%' OR $1 = '')
	AND (kind = $2 OR $2 = '')
	AND (genre @> jsonb_build_array(jsonb_build_object('id', $3::int)) OR $3 = 0)
	ORDER BY %s %s, id ASC
	LIMIT $4 OFFSET $5
	`, contentColumns, sortColumn, sortDirection)
	rows, _ := m.DB.Query(ctx, query, filter.Title, filter.Kind, filter.GenreID, f.Limit(), f.Offset())
	type row struct {
		Count int
		models.Content
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	contents := make([]models.Content, 0, len(outputRows))
	for _, row := range outputRows {
		contents = append(contents, row.Content)
	}
	totalRecords := 0
	if len(outputRows) > 0 {
		totalRecords = outputRows[0].Count
	}
	return contents, totalRecords, nil
}

func (m *ContentModel) Update(ctx context.Context, content *models.Content) (*models.Content, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE contents SET version = version + 1, kind = $1, title = $2, description = $3,
		release_year = $4, runtime = $5, seasons = $6, poster = $7, genre = $8
		WHERE id = $9 AND version = $10 RETURNING `+contentColumns,
		content.Kind,
		content.Title,
		content.Description,
		content.ReleaseYear,
		content.Runtime,
		content.Seasons,
		content.Poster,
		models.CloneGenreRefs(content.Genre),
		content.ID,
		content.Version,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Content])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, versionMismatch(ctx, m.DB, "contents", content.ID)
		}
		return nil, postgres.MapError(err)
	}
	return &updated, nil
}

func (m *ContentModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *ContentModel) RenameGenre(ctx context.Context, refID string, name string) (int64, error) {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE contents SET genre = `+renameRefsExpr("genre")+`, version = version + 1
		WHERE genre `+refFilter,
		refID,
		name,
	)
	if err != nil {
		return 0, err
	}
	return status.RowsAffected(), nil
}

func (m *ContentModel) CountGenreRefs(ctx context.Context, refID string) (int, error) {
	var n int
	err := m.DB.QueryRow(ctx, `SELECT count(*) FROM contents WHERE genre `+refFilter, refID).Scan(&n)
	return n, err
}

// versionMismatch tells a stale version apart from a missing row after an
// optimistic update matched nothing.
func versionMismatch(ctx context.Context, db *pgxpool.Pool, table string, id int64) error {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return storage.ErrEditConflict
	}
	return storage.ErrNotFound
}
