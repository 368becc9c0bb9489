package models

import (
	"context"
	"errors"
	"fmt"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewModel struct {
	DB *pgxpool.Pool
}

const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username AS author, r.text, r.score, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.author_id
`

func (m *ReviewModel) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	var id int64
	err := m.DB.QueryRow(
		ctx,
		"INSERT INTO reviews (title_id, author_id, text, score) VALUES ($1, $2, $3, $4) RETURNING id",
		titleID, authorID, text, score,
	).Scan(&id)
	if err != nil {
		var pgxErr *pgconn.PgError
		// unique (author_id, title_id) is the authoritative guard against
		// duplicate reviews racing past the service-level pre-check.
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return m.Get(ctx, titleID, id)
}

func (m *ReviewModel) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	rows, _ := m.DB.Query(ctx, reviewSelect+"WHERE r.title_id = $1 AND r.id = $2", titleID, id)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) GetByAuthorAndTitle(ctx context.Context, authorID, titleID int64) (*models.Review, error) {
	rows, _ := m.DB.Query(ctx, reviewSelect+"WHERE r.author_id = $1 AND r.title_id = $2", authorID, titleID)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), r.id, r.title_id, r.author_id, u.username AS author, r.text, r.score, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.author_id
	WHERE r.title_id = $1
	ORDER BY r.%s %s, r.id ASC
	LIMIT $2 OFFSET $3
	`, f.SortColumn(), f.SortDirection())
	rows, _ := m.DB.Query(ctx, query, titleID, f.Limit(), f.Offset())
	type row struct {
		Count int
		models.Review
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	reviews := make([]models.Review, 0, len(outputRows))
	for _, r := range outputRows {
		reviews = append(reviews, r.Review)
	}
	if len(outputRows) == 0 {
		return reviews, 0, nil
	}
	return reviews, outputRows[0].Count, nil
}

// Update touches only text and score; authorship is immutable after creation.
func (m *ReviewModel) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	status, err := m.DB.Exec(
		ctx,
		"UPDATE reviews SET text = $1, score = $2 WHERE id = $3",
		review.Text, review.Score, review.ID,
	)
	if err != nil {
		return nil, err
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	return m.Get(ctx, review.TitleID, review.ID)
}

// Delete cascades into the review's comments.
func (m *ReviewModel) Delete(ctx context.Context, titleID, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE title_id = $1 AND id = $2", titleID, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
