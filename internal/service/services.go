package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/cache"
	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/storage"
)

// SlugCheck is the result of probing a candidate slug against storage.
type SlugCheck struct {
	Exists     bool   `json:"exists"`
	UniqueSlug string `json:"uniqueSlug"`
}

// ArticleService defines the article workflows
type ArticleService interface {
	Create(ctx context.Context, slug string, markdown []byte, categoryID string) (*models.ArticleWithCategory, error)
	Update(ctx context.Context, slug string, markdown []byte, categoryID string) (*models.ArticleWithCategory, error)
	Delete(ctx context.Context, slug string) error
	Get(ctx context.Context, slugOrID string) (*models.ArticleWithCategory, error)
	List(ctx context.Context, page int, categoryID *int64) (*models.ArticleList, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	CheckOrGenerateSlug(ctx context.Context, slug string) (*SlugCheck, error)
	UploadTitleImage(ctx context.Context, slug, filename string, data []byte) (string, error)
}

// CategoryService defines category CRUD
type CategoryService interface {
	Create(ctx context.Context, label string) (*models.Category, error)
	Update(ctx context.Context, id int64, label string) (*models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// Services holds all service interfaces
type Services struct {
	Article  ArticleService
	Category CategoryService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, store storage.Store, c *cache.Cache, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Article:  newArticleService(repos, store, c, cfg, log),
		Category: newCategoryService(repos.Category, c, log),
	}
}
