package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blog-content-api/internal/cache"
	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/mocks"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/storage"
)

const testMarkdown = "author: Jane Doe\ndate: 2024-01-15\nimage: \"https://cdn.example.com/pic.jpg\"\n\n# Hello\n\nBody.\n"

type articleFixture struct {
	svc        ArticleService
	articles   *mocks.MockArticleRepository
	categories *mocks.MockCategoryRepository
	store      *mocks.MockStore
}

func newArticleFixture() *articleFixture {
	articles := mocks.NewMockArticleRepository()
	categories := mocks.NewMockCategoryRepository()
	store := mocks.NewMockStore()

	cfg := &config.Config{
		Storage: config.StorageConfig{Folder: "markdown_articles"},
	}
	repos := &repository.Repositories{Article: articles, Category: categories}
	services := NewServices(repos, store, cache.New(time.Minute, time.Minute), cfg, zerolog.Nop())

	return &articleFixture{
		svc:        services.Article,
		articles:   articles,
		categories: categories,
		store:      store,
	}
}

func TestCreateArticle(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	article, err := f.svc.Create(ctx, "my-article", []byte(testMarkdown), "")
	require.NoError(t, err)
	require.NotNil(t, article)

	assert.Equal(t, "my-article", article.Slug)
	assert.Equal(t, "my article", article.Title)
	assert.Equal(t, "Jane Doe", article.Author)
	assert.Equal(t, "2024-01-15", article.Date)
	assert.Equal(t, "https://cdn.example.com/pic.jpg", article.Image)
	assert.Nil(t, article.CategoryID)
	assert.NotEmpty(t, article.ID)
	assert.NotEmpty(t, article.FileURL)

	_, stored := f.store.Object(storage.KindRaw, "markdown_articles/my-article/my-article.md")
	assert.True(t, stored, "markdown blob should be stored under the slug's folder")
}

func TestCreateArticleWithCategory(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.categories.Seed(&models.Category{ID: 7, Label: "Go"})

	article, err := f.svc.Create(ctx, "my-article", []byte(testMarkdown), "7")
	require.NoError(t, err)
	require.NotNil(t, article.CategoryID)
	assert.Equal(t, int64(7), *article.CategoryID)
}

func TestCreateArticleDefaults(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	article, err := f.svc.Create(ctx, "bare-article", []byte("# Just a heading\n"), "")
	require.NoError(t, err)

	assert.Equal(t, "unknown", article.Author)
	assert.Equal(t, time.Now().Format("2006-01-02"), article.Date)
	assert.Equal(t, "", article.Image)
}

func TestCreateArticleValidation(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	tests := []struct {
		name       string
		slug       string
		markdown   string
		categoryID string
	}{
		{"empty markdown", "my-article", "", ""},
		{"bad slug", "My_Article", testMarkdown, ""},
		{"bad author", "my-article", "author: John3\ndate: 2024-01-15\n", ""},
		{"bad date", "my-article", "author: Jane\ndate: someday\n", ""},
		{"non-numeric category", "my-article", testMarkdown, "seven"},
		{"unknown category", "my-article", testMarkdown, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.slug, []byte(tt.markdown), tt.categoryID)
			var invalid *InvalidInputError
			require.Error(t, err)
			assert.True(t, errors.As(err, &invalid), "expected InvalidInputError, got %v", err)
		})
	}

	assert.Equal(t, 0, f.store.UploadCalls, "validation failures must not reach storage")
}

func TestCreateArticleSlugTaken(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.store.Put(storage.KindRaw, "markdown_articles/my-article/my-article.md", []byte("old"))

	_, err := f.svc.Create(ctx, "my-article", []byte(testMarkdown), "")
	assert.ErrorIs(t, err, ErrSlugTaken)
	assert.Equal(t, 0, f.articles.CreateCalls, "no row insert after a rejected upload")
}

func TestCreateArticleCompensatesFailedInsert(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.articles.CreateErr = fmt.Errorf("connection reset")

	_, err := f.svc.Create(ctx, "my-article", []byte(testMarkdown), "")
	require.Error(t, err)

	assert.Equal(t, 1, f.store.DeletePrefixCalls, "failed insert must trigger the compensating delete")
	_, stored := f.store.Object(storage.KindRaw, "markdown_articles/my-article/my-article.md")
	assert.False(t, stored, "orphaned blob should have been removed")
}

func TestUpdateArticle(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.categories.Seed(&models.Category{ID: 3, Label: "Infra"})
	f.articles.Seed(&models.Article{ID: "11111111-1111-1111-1111-111111111111", Slug: "my-article", Title: "my article", Author: "Jane"})
	f.store.Put(storage.KindRaw, "markdown_articles/my-article/my-article.md", []byte("old"))

	updated, err := f.svc.Update(ctx, "my-article", []byte(testMarkdown), "3")
	require.NoError(t, err)

	assert.Equal(t, "11111111-1111-1111-1111-111111111111", updated.ID)
	assert.Equal(t, "Jane Doe", updated.Author)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, int64(3), *updated.CategoryID)

	data, _ := f.store.Object(storage.KindRaw, "markdown_articles/my-article/my-article.md")
	assert.Equal(t, []byte(testMarkdown), data, "stored markdown should be overwritten in place")
}

func TestUpdateArticleNotFound(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.categories.Seed(&models.Category{ID: 3, Label: "Infra"})

	_, err := f.svc.Update(ctx, "missing", []byte(testMarkdown), "3")
	assert.ErrorIs(t, err, ErrArticleNotFound)
	assert.Equal(t, 0, f.store.UploadCalls, "existence is checked before any upload")
}

func TestUpdateArticleRequiresCategory(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "my-article", []byte(testMarkdown), "")
	var invalid *InvalidInputError
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestDeleteArticle(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.articles.Seed(&models.Article{ID: "11111111-1111-1111-1111-111111111111", Slug: "my-article"})
	f.store.Put(storage.KindRaw, "markdown_articles/my-article/my-article.md", []byte("md"))
	f.store.Put(storage.KindImage, "markdown_articles/my-article/title.jpg", []byte("img"))

	require.NoError(t, f.svc.Delete(ctx, "my-article"))

	assert.Equal(t, 0, f.store.Len(), "all blobs under the slug's folder are removed")
	assert.Equal(t, 1, f.store.DeleteFolderCalls)
	assert.Equal(t, []string{
		"raw/markdown_articles/my-article",
		"image/markdown_articles/my-article",
	}, f.store.DeletedPrefixes, "raw objects go before image objects")

	exists, _ := f.articles.SlugExists(ctx, "my-article")
	assert.False(t, exists)
}

func TestDeleteArticleNotFound(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	err := f.svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)
	assert.Equal(t, 0, f.store.DeletePrefixCalls, "unknown slug must not touch storage")
	assert.Equal(t, 0, f.store.DeleteFolderCalls)
}

func TestDeleteArticleStopsOnStorageFailure(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.articles.Seed(&models.Article{ID: "11111111-1111-1111-1111-111111111111", Slug: "my-article"})
	f.store.DeletePrefixErr = fmt.Errorf("store unavailable")

	err := f.svc.Delete(ctx, "my-article")
	require.Error(t, err)

	assert.Equal(t, 1, f.store.DeletePrefixCalls, "the first failure stops the workflow")
	assert.Equal(t, 0, f.store.DeleteFolderCalls)
	assert.Equal(t, 0, f.articles.DeleteCalls, "the row survives a failed storage delete")
}

func TestGetArticle(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()
	f.articles.Seed(&models.Article{ID: "11111111-1111-1111-1111-111111111111", Slug: "my-article", Title: "my article"})

	bySlug, err := f.svc.Get(ctx, "my-article")
	require.NoError(t, err)
	assert.Equal(t, "my-article", bySlug.Slug)

	byID, err := f.svc.Get(ctx, "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, "my-article", byID.Slug)

	_, err = f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestListArticlesPagination(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 7; i++ {
		f.articles.Seed(&models.Article{
			ID:        fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i),
			Slug:      fmt.Sprintf("article-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	page2, err := f.svc.List(ctx, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, page2.Total)
	assert.Equal(t, 2, page2.CurrentPage)
	assert.Equal(t, 3, page2.TotalPages)
	require.Len(t, page2.Data, 3)
	// Newest first: page 2 holds the 4th through 6th newest.
	assert.Equal(t, "article-4", page2.Data[0].Slug)
	assert.Equal(t, "article-3", page2.Data[1].Slug)
	assert.Equal(t, "article-2", page2.Data[2].Slug)

	page3, err := f.svc.List(ctx, 3, nil)
	require.NoError(t, err)
	assert.Len(t, page3.Data, 1)

	beyond, err := f.svc.List(ctx, 4, nil)
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
	assert.Equal(t, 7, beyond.Total)
}

func TestListArticlesByCategory(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	seven := int64(7)
	f.articles.SetCategoryLabel(7, "Go")
	f.articles.Seed(&models.Article{ID: "00000000-0000-0000-0000-000000000001", Slug: "in-category", CategoryID: &seven})
	f.articles.Seed(&models.Article{ID: "00000000-0000-0000-0000-000000000002", Slug: "uncategorized"})

	list, err := f.svc.List(ctx, 1, &seven)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "in-category", list.Data[0].Slug)
	require.NotNil(t, list.Data[0].Category)
	assert.Equal(t, "Go", list.Data[0].Category.Label)
}

func TestListArticlesInvalidPage(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	_, err := f.svc.List(ctx, 0, nil)
	var invalid *InvalidInputError
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestCountByCategoryEmpty(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	_, err := f.svc.CountByCategory(ctx)
	assert.ErrorIs(t, err, ErrNoArticles)
}

func TestCountByCategory(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	seven := int64(7)
	f.articles.SetCategoryLabel(7, "Go")
	f.articles.Seed(&models.Article{ID: "00000000-0000-0000-0000-000000000001", Slug: "a", CategoryID: &seven})
	f.articles.Seed(&models.Article{ID: "00000000-0000-0000-0000-000000000002", Slug: "b", CategoryID: &seven})
	f.articles.Seed(&models.Article{ID: "00000000-0000-0000-0000-000000000003", Slug: "c"})

	counts, err := f.svc.CountByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, models.CategoryCount{Category: "Go", Count: 2}, counts[0])
}

func TestCheckOrGenerateSlug(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	free, err := f.svc.CheckOrGenerateSlug(ctx, "my-article")
	require.NoError(t, err)
	assert.False(t, free.Exists)
	assert.Equal(t, "my-article", free.UniqueSlug)

	f.store.Put(storage.KindRaw, "markdown_articles/my-article/my-article.md", []byte("md"))
	first, err := f.svc.CheckOrGenerateSlug(ctx, "my-article")
	require.NoError(t, err)
	assert.True(t, first.Exists)
	assert.Equal(t, "my-article_1", first.UniqueSlug)

	f.store.Put(storage.KindRaw, "markdown_articles/my-article_1/my-article_1.md", []byte("md"))
	second, err := f.svc.CheckOrGenerateSlug(ctx, "my-article")
	require.NoError(t, err)
	assert.True(t, second.Exists)
	assert.Equal(t, "my-article_2", second.UniqueSlug)
}

func TestCheckOrGenerateSlugExhausted(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	f.store.Put(storage.KindRaw, "markdown_articles/my-article/my-article.md", []byte("md"))
	for n := 1; n <= 100; n++ {
		slug := fmt.Sprintf("my-article_%d", n)
		f.store.Put(storage.KindRaw, fmt.Sprintf("markdown_articles/%s/%s.md", slug, slug), []byte("md"))
	}

	_, err := f.svc.CheckOrGenerateSlug(ctx, "my-article")
	assert.ErrorIs(t, err, ErrSlugExhausted)
}

func TestCheckOrGenerateSlugInvalid(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	_, err := f.svc.CheckOrGenerateSlug(ctx, "My Article")
	var invalid *InvalidInputError
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestUploadTitleImage(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	url, err := f.svc.UploadTitleImage(ctx, "my-article", "cover.png", buf.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	data, stored := f.store.Object(storage.KindImage, "markdown_articles/my-article/cover.jpg")
	require.True(t, stored, "image should be stored as JPEG under the slug's folder")

	decoded, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1200, decoded.Bounds().Dx())
	assert.Equal(t, 628, decoded.Bounds().Dy())
}

func TestUploadTitleImageRejectsNonImage(t *testing.T) {
	f := newArticleFixture()
	ctx := context.Background()

	_, err := f.svc.UploadTitleImage(ctx, "my-article", "cover.png", []byte("definitely not an image"))
	var invalid *InvalidInputError
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, 0, f.store.UploadCalls)
}
