package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

const articleColumns = `
	a.id, a.slug, a.title, a.category_id, a.author, a.date, a.image,
	a.file_url, a.protected, a.created_at, a.updated_at, c.id, c.label
`

// Create inserts a new article row. The slug UNIQUE constraint is the final
// word on uniqueness; the resolver's storage probe only narrows the race.
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, slug, title, category_id, author, date, image, file_url, protected, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Slug, article.Title, article.CategoryID,
		article.Author, article.Date, article.Image, article.FileURL,
		article.Protected, article.CreatedAt, article.UpdatedAt,
	)
	return err
}

// Update overwrites the mutable fields of the row identified by slug
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET category_id = $1, author = $2, date = $3, image = $4, file_url = $5, updated_at = $6
		WHERE slug = $7
	`
	article.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		article.CategoryID, article.Author, article.Date, article.Image,
		article.FileURL, article.UpdatedAt, article.Slug,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no article row for slug %s", article.Slug)
	}
	return nil
}

// GetBySlug retrieves an article by slug with its category joined in.
// Returns nil when no row matches.
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.ArticleWithCategory, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		WHERE a.slug = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// GetByID retrieves an article by its surrogate id with its category joined in
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.ArticleWithCategory, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		WHERE a.id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// SlugExists checks if an article with the given slug exists
func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// DeleteBySlug removes the article row, reporting whether a row was deleted
func (r *articleRepo) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE slug = $1", slug)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List returns one page of articles newest-first, optionally filtered by
// category, along with the total count the filter matches.
func (r *articleRepo) List(ctx context.Context, limit, offset int, categoryID *int64) ([]models.ArticleWithCategory, int, error) {
	countQuery := "SELECT COUNT(*) FROM articles a"
	listQuery := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
	`

	var countArgs, listArgs []interface{}
	if categoryID != nil {
		countQuery += " WHERE a.category_id = $1"
		listQuery += " WHERE a.category_id = $1"
		countArgs = append(countArgs, *categoryID)
		listArgs = append(listArgs, *categoryID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", len(listArgs)+1, len(listArgs)+2)
	listArgs = append(listArgs, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var articles []models.ArticleWithCategory
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, *article)
	}

	return articles, total, rows.Err()
}

// CountByCategory groups all articles by their category label. Articles
// without a category aggregate under the empty label.
func (r *articleRepo) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	query := `
		SELECT COALESCE(c.label, ''), COUNT(*)
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		GROUP BY c.label
		ORDER BY COUNT(*) DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var count models.CategoryCount
		if err := rows.Scan(&count.Category, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}

	return counts, rows.Err()
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *articleRepo) scanOne(row *sql.Row) (*models.ArticleWithCategory, error) {
	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

func scanArticle(row rowScanner) (*models.ArticleWithCategory, error) {
	var article models.ArticleWithCategory
	var categoryID sql.NullInt64
	var image sql.NullString
	var catID sql.NullInt64
	var catLabel sql.NullString

	err := row.Scan(
		&article.ID, &article.Slug, &article.Title, &categoryID,
		&article.Author, &article.Date, &image, &article.FileURL,
		&article.Protected, &article.CreatedAt, &article.UpdatedAt,
		&catID, &catLabel,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		article.CategoryID = &categoryID.Int64
	}
	if image.Valid {
		article.Image = image.String
	}
	if catID.Valid {
		article.Category = &models.CategoryRef{ID: catID.Int64, Label: catLabel.String}
	}

	return &article, nil
}
