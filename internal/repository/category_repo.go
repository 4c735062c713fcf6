package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// Create inserts a new category and fills in its generated id
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (label, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	return r.db.QueryRowContext(ctx, query, category.Label, category.CreatedAt, category.UpdatedAt).
		Scan(&category.ID)
}

// Update overwrites the label, reporting whether the row existed
func (r *categoryRepo) Update(ctx context.Context, category *models.Category) (bool, error) {
	query := `UPDATE categories SET label = $1, updated_at = $2 WHERE id = $3`
	category.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, category.Label, category.UpdatedAt, category.ID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetByID retrieves a category by id, nil when no row matches
func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, label, created_at, updated_at FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.Label, &category.CreatedAt, &category.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetAll retrieves every category ordered by label
func (r *categoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, created_at, updated_at FROM categories ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Label, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// Exists checks if a category with the given id exists
func (r *categoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// Delete removes a category, reporting whether a row was deleted. Articles
// referencing it fall back to NULL via the FK's ON DELETE SET NULL.
func (r *categoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
