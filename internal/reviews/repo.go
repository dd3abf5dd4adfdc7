package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"reviewhub/pkg/models"
)

const selectColumns = `id, email, rating, text, created_at`

// Repo is the SQL-backed Store. Queries are written with ? placeholders
// and rebound for the driver in use (sqlite3 or pgx).
type Repo struct {
	DB *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, in models.NewReview) (*models.Review, error) {
	var id int64
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(`
		INSERT INTO reviews (email, rating, text)
		VALUES (?, ?, ?)
		RETURNING id
	`), in.Email, in.Rating, in.Text).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	review, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, fmt.Errorf("insert review: row %d not found after insert", id)
	}
	return review, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := r.DB.GetContext(ctx, &review, r.DB.Rebind(`
		SELECT `+selectColumns+`
		FROM reviews
		WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &review, nil
}

// List returns every review, newest first. Equal timestamps fall back to
// id so the latest insert still sorts first.
func (r *Repo) List(ctx context.Context) ([]models.Review, error) {
	out := make([]models.Review, 0)
	if err := r.DB.SelectContext(ctx, &out, `
		SELECT `+selectColumns+`
		FROM reviews
		ORDER BY created_at DESC, id DESC
	`); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if out == nil {
		out = []models.Review{}
	}
	return out, nil
}
