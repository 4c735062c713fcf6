package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blog-content-api/internal/cache"
	"github.com/blog-content-api/internal/mocks"
	"github.com/blog-content-api/internal/models"
)

func newCategoryFixture() (CategoryService, *mocks.MockCategoryRepository) {
	repo := mocks.NewMockCategoryRepository()
	svc := newCategoryService(repo, cache.New(time.Minute, time.Minute), zerolog.Nop())
	return svc, repo
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	category, err := svc.Create(ctx, "Go Programming")
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Go Programming", category.Label)
}

func TestCreateCategoryInvalidLabel(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	for _, label := range []string{"", "C++", "Go & More"} {
		_, err := svc.Create(ctx, label)
		var invalid *InvalidInputError
		require.Error(t, err, "label %q", label)
		assert.True(t, errors.As(err, &invalid), "label %q: expected InvalidInputError, got %v", label, err)
	}
}

func TestUpdateCategory(t *testing.T) {
	svc, repo := newCategoryFixture()
	ctx := context.Background()
	repo.Seed(&models.Category{ID: 5, Label: "Old Label"})

	category, err := svc.Update(ctx, 5, "New Label")
	require.NoError(t, err)
	assert.Equal(t, int64(5), category.ID)
	assert.Equal(t, "New Label", category.Label)
}

func TestUpdateCategoryNotFound(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	_, err := svc.Update(ctx, 99, "New Label")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetCategory(t *testing.T) {
	svc, repo := newCategoryFixture()
	ctx := context.Background()
	repo.Seed(&models.Category{ID: 5, Label: "Go"})

	category, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Go", category.Label)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetAllCategories(t *testing.T) {
	svc, repo := newCategoryFixture()
	ctx := context.Background()
	repo.Seed(&models.Category{ID: 1, Label: "Go"})
	repo.Seed(&models.Category{ID: 2, Label: "Databases"})

	categories, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Databases", categories[0].Label)
	assert.Equal(t, "Go", categories[1].Label)
}

func TestDeleteCategory(t *testing.T) {
	svc, repo := newCategoryFixture()
	ctx := context.Background()
	repo.Seed(&models.Category{ID: 5, Label: "Go"})

	require.NoError(t, svc.Delete(ctx, 5))

	_, err := svc.Get(ctx, 5)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	err := svc.Delete(ctx, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
