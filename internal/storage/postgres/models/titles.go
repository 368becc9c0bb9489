package models

import (
	"context"
	"errors"
	"fmt"

	"yamdb/proj/internal/domain/fields"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TitleModel struct {
	DB *pgxpool.Pool
}

// titleRow is the flat shape of the title read queries. Rating is the
// read-time AVG over the title's review scores: it is recomputed on every
// query rather than stored, so it can never drift from the review data.
type titleRow struct {
	ID           int64
	Name         string
	Year         int32
	Description  string
	CategoryID   *int64
	CategoryName *string
	CategorySlug *string
	Rating       *float64
}

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description,
		c.id AS category_id, c.name AS category_name, c.slug AS category_slug,
		AVG(r.score)::float8 AS rating
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN reviews r ON r.title_id = t.id
`

func (r titleRow) toTitle() models.Title {
	title := models.Title{
		ID:          r.ID,
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Rating:      fields.NewRating(r.Rating),
		Genres:      []models.Genre{},
	}
	if r.CategoryID != nil {
		title.Category = &models.Category{ID: *r.CategoryID, Name: *r.CategoryName, Slug: *r.CategorySlug}
	}
	return title
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	rows, _ := m.DB.Query(
		ctx,
		titleSelect+"WHERE t.id = $1 GROUP BY t.id, c.id",
		id,
	)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[titleRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	title := row.toTitle()
	if err := m.fillGenres(ctx, []*models.Title{&title}); err != nil {
		return nil, err
	}
	return &title, nil
}

func (m *TitleModel) List(ctx context.Context, tf filters.TitleFilters, f filters.Filters) ([]models.Title, int, error) {
	// rating is an aggregate alias, not a column of t
	sortCol := f.SortColumn()
	if sortCol != "rating" {
		sortCol = "t." + sortCol
	}
	query := fmt.Sprintf(`
	%s
	WHERE (t.name ILIKE $1 OR $1 = '')
	AND ($2 = 0 OR t.year = $2)
	AND ($3 = '' OR c.slug = $3)
	AND ($4 = '' OR EXISTS (
		SELECT 1 FROM genre_title gt JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = t.id AND g.slug = $4
	))
	GROUP BY t.id, c.id
	ORDER BY %s %s, t.id ASC
	LIMIT $5 OFFSET $6
	`, titleSelect, sortCol, f.SortDirection())
	args := []any{tf.Name, tf.Year, tf.Category, tf.Genre, f.Limit(), f.Offset()}
	rows, _ := m.DB.Query(ctx, query, args...)
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[titleRow])
	if err != nil {
		return nil, 0, err
	}
	titles := make([]models.Title, 0, len(outputRows))
	refs := make([]*models.Title, 0, len(outputRows))
	for _, r := range outputRows {
		titles = append(titles, r.toTitle())
		refs = append(refs, &titles[len(titles)-1])
	}
	if err := m.fillGenres(ctx, refs); err != nil {
		return nil, 0, err
	}
	total, err := m.count(ctx, tf)
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func (m *TitleModel) count(ctx context.Context, tf filters.TitleFilters) (int, error) {
	var total int
	err := m.DB.QueryRow(ctx, `
	SELECT count(*) FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	WHERE (t.name ILIKE $1 OR $1 = '')
	AND ($2 = 0 OR t.year = $2)
	AND ($3 = '' OR c.slug = $3)
	AND ($4 = '' OR EXISTS (
		SELECT 1 FROM genre_title gt JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = t.id AND g.slug = $4
	))
	`, tf.Name, tf.Year, tf.Category, tf.Genre).Scan(&total)
	return total, err
}

func (m *TitleModel) fillGenres(ctx context.Context, titles []*models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(titles))
	byID := make(map[int64]*models.Title, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}
	rows, _ := m.DB.Query(ctx, `
	SELECT gt.title_id, g.id, g.name, g.slug FROM genre_title gt
	JOIN genres g ON g.id = gt.genre_id
	WHERE gt.title_id = ANY($1)
	ORDER BY g.name
	`, ids)
	defer rows.Close()
	for rows.Next() {
		var titleID int64
		var genre models.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return err
		}
		byID[titleID].Genres = append(byID[titleID].Genres, genre)
	}
	return rows.Err()
}

// Insert creates the title and its genre links in one transaction so a failed
// link never leaves a half-created title behind.
func (m *TitleModel) Insert(ctx context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (int64, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)
	var id int64
	err = tx.QueryRow(
		ctx,
		"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
		name, year, description, categoryID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	if err := insertGenreLinks(ctx, tx, id, genreIDs); err != nil {
		return 0, err
	}
	return id, tx.Commit(ctx)
}

func (m *TitleModel) Update(ctx context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64) error {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	status, err := tx.Exec(
		ctx,
		"UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5",
		name, year, description, categoryID, id,
	)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	if genreIDs != nil {
		if _, err := tx.Exec(ctx, "DELETE FROM genre_title WHERE title_id = $1", id); err != nil {
			return err
		}
		if err := insertGenreLinks(ctx, tx, id, genreIDs); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertGenreLinks(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx, "INSERT INTO genre_title (genre_id, title_id) VALUES ($1, $2)", genreID, titleID); err != nil {
			return err
		}
	}
	return nil
}

// Delete cascades into the title's reviews and their comments.
func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
