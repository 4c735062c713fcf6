package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/cache"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/validation"
)

// categoryService is the concrete implementation of CategoryService
type categoryService struct {
	categories repository.CategoryRepository
	cache      *cache.Cache
	log        zerolog.Logger
}

func newCategoryService(categories repository.CategoryRepository, c *cache.Cache, log zerolog.Logger) *categoryService {
	return &categoryService{
		categories: categories,
		cache:      c,
		log:        log.With().Str("service", "category").Logger(),
	}
}

// Create validates the label and inserts a new category
func (s *categoryService) Create(ctx context.Context, label string) (*models.Category, error) {
	if errs := validation.ValidateCategoryLabel(label); len(errs) > 0 {
		return nil, invalidInput(errs...)
	}

	category := &models.Category{Label: label}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("category insert failed: %w", err)
	}

	s.cache.Flush()
	s.log.Info().Int64("id", category.ID).Str("label", label).Msg("Category created")

	return category, nil
}

// Update overwrites the label of an existing category
func (s *categoryService) Update(ctx context.Context, id int64, label string) (*models.Category, error) {
	if errs := validation.ValidateCategoryLabel(label); len(errs) > 0 {
		return nil, invalidInput(errs...)
	}

	category := &models.Category{ID: id, Label: label}
	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("category update failed: %w", err)
	}
	if !updated {
		return nil, ErrCategoryNotFound
	}

	s.cache.Flush()

	fresh, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated category: %w", err)
	}
	return fresh, nil
}

// Get retrieves a single category
func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("category lookup failed: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// GetAll retrieves every category
func (s *categoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.cache.Get(cache.KeyCategories()); ok {
		return cached.([]models.Category), nil
	}

	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("category listing failed: %w", err)
	}

	s.cache.Set(cache.KeyCategories(), categories)
	return categories, nil
}

// Delete removes a category. Articles referencing it are left uncategorized
// by the schema's ON DELETE SET NULL.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("category delete failed: %w", err)
	}
	if !deleted {
		return ErrCategoryNotFound
	}

	s.cache.Flush()
	s.log.Info().Int64("id", id).Msg("Category deleted")

	return nil
}
