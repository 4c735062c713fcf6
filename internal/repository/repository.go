package repository

import (
	"context"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	GetBySlug(ctx context.Context, slug string) (*models.ArticleWithCategory, error)
	GetByID(ctx context.Context, id string) (*models.ArticleWithCategory, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	DeleteBySlug(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, limit, offset int, categoryID *int64) ([]models.ArticleWithCategory, int, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article  ArticleRepository
	Category CategoryRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:  NewArticleRepo(db),
		Category: NewCategoryRepo(db),
	}
}
