package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/cache"
	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/metadata"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/storage"
	"github.com/blog-content-api/internal/validation"
)

const (
	// pageSize is the fixed listing page size
	pageSize = 3

	// maxSlugAttempts caps the collision probe loop so a pathological
	// storage namespace cannot stall a request indefinitely
	maxSlugAttempts = 100

	// defaultAuthor is stored when the front matter has no author line
	defaultAuthor = "unknown"

	// Title images are normalized to a fixed social-card aspect before upload
	titleImageWidth  = 1200
	titleImageHeight = 628
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	store      storage.Store
	cache      *cache.Cache
	folder     string
	log        zerolog.Logger
}

func newArticleService(repos *repository.Repositories, store storage.Store, c *cache.Cache, cfg *config.Config, log zerolog.Logger) *articleService {
	return &articleService{
		articles:   repos.Article,
		categories: repos.Category,
		store:      store,
		cache:      c,
		folder:     cfg.Storage.Folder,
		log:        log.With().Str("service", "article").Logger(),
	}
}

// Create runs the upload workflow: validate the slug, pull the front-matter
// fields out of the buffer, check the category reference, push the Markdown
// to the blob store and only then insert the row. A failed insert triggers a
// best-effort compensating delete of the freshly uploaded blob so storage
// does not accumulate orphans.
func (s *articleService) Create(ctx context.Context, slug string, markdown []byte, categoryID string) (*models.ArticleWithCategory, error) {
	if len(markdown) == 0 {
		return nil, invalidField("markdown", "markdown file is required")
	}
	if errs := validation.ValidateSlug(slug); len(errs) > 0 {
		return nil, invalidInput(errs...)
	}

	fields, catRef, err := s.extractAndValidate(ctx, markdown, categoryID)
	if err != nil {
		return nil, err
	}

	mdPath := storage.MarkdownPath(s.folder, slug)
	fileURL, err := s.store.Upload(ctx, markdown, storage.KindRaw, mdPath, false)
	if err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slug)
		}
		return nil, fmt.Errorf("markdown upload failed: %w", err)
	}

	article := &models.Article{
		ID:         uuid.New().String(),
		Slug:       slug,
		Title:      strings.ReplaceAll(slug, "-", " "),
		CategoryID: catRef,
		Author:     fields.author,
		Date:       fields.date,
		Image:      fields.image,
		FileURL:    fileURL,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		// Compensate: the blob went up but the row did not land. Remove
		// the blob again so the slug's storage path stays claimable.
		if delErr := s.store.DeletePrefix(ctx, storage.KindRaw, mdPath); delErr != nil {
			s.log.Error().Err(delErr).Str("slug", slug).Msg("Failed to clean up orphaned markdown blob")
		}
		return nil, fmt.Errorf("article insert failed: %w", err)
	}

	s.cache.Flush()

	created, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created article: %w", err)
	}

	s.log.Info().
		Str("slug", slug).
		Str("author", article.Author).
		Str("file_url", fileURL).
		Msg("Article created")

	return created, nil
}

// Update mirrors Create but requires the article to exist before any side
// effect, re-validates the category from the request body and overwrites the
// stored Markdown in place.
func (s *articleService) Update(ctx context.Context, slug string, markdown []byte, categoryID string) (*models.ArticleWithCategory, error) {
	if len(markdown) == 0 {
		return nil, invalidField("markdown", "markdown file is required")
	}
	if errs := validation.ValidateSlug(slug); len(errs) > 0 {
		return nil, invalidInput(errs...)
	}
	if categoryID == "" {
		return nil, invalidField("categoryId", "categoryId is required")
	}

	existing, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("article lookup failed: %w", err)
	}
	if existing == nil {
		return nil, ErrArticleNotFound
	}

	fields, catRef, err := s.extractAndValidate(ctx, markdown, categoryID)
	if err != nil {
		return nil, err
	}

	mdPath := storage.MarkdownPath(s.folder, slug)
	fileURL, err := s.store.Upload(ctx, markdown, storage.KindRaw, mdPath, true)
	if err != nil {
		return nil, fmt.Errorf("markdown upload failed: %w", err)
	}

	article := existing.Article
	article.CategoryID = catRef
	article.Author = fields.author
	article.Date = fields.date
	article.Image = fields.image
	article.FileURL = fileURL

	if err := s.articles.Update(ctx, &article); err != nil {
		return nil, fmt.Errorf("article update failed: %w", err)
	}

	s.cache.Flush()

	updated, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated article: %w", err)
	}

	s.log.Info().Str("slug", slug).Msg("Article updated")

	return updated, nil
}

// Delete removes the article's storage footprint and then its row. The
// storage steps run sequentially; the first failure stops the workflow with
// no rollback of earlier deletions.
func (s *articleService) Delete(ctx context.Context, slug string) error {
	exists, err := s.articles.SlugExists(ctx, slug)
	if err != nil {
		return fmt.Errorf("article lookup failed: %w", err)
	}
	if !exists {
		return ErrArticleNotFound
	}

	folder := storage.ArticleFolder(s.folder, slug)

	if err := s.store.DeletePrefix(ctx, storage.KindRaw, folder); err != nil {
		return fmt.Errorf("failed to delete markdown objects: %w", err)
	}
	if err := s.store.DeletePrefix(ctx, storage.KindImage, folder); err != nil {
		return fmt.Errorf("failed to delete image objects: %w", err)
	}
	if err := s.store.DeleteFolder(ctx, folder); err != nil {
		return fmt.Errorf("failed to delete article folder: %w", err)
	}

	deleted, err := s.articles.DeleteBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("article delete failed: %w", err)
	}
	if !deleted {
		return ErrArticleNotFound
	}

	s.cache.Flush()
	s.log.Info().Str("slug", slug).Msg("Article deleted")

	return nil
}

// Get looks up a single article by surrogate id when the parameter parses as
// a UUID, by slug otherwise.
func (s *articleService) Get(ctx context.Context, slugOrID string) (*models.ArticleWithCategory, error) {
	if cached, ok := s.cache.Get(cache.KeyArticle(slugOrID)); ok {
		return cached.(*models.ArticleWithCategory), nil
	}

	var article *models.ArticleWithCategory
	var err error
	if _, parseErr := uuid.Parse(slugOrID); parseErr == nil {
		article, err = s.articles.GetByID(ctx, slugOrID)
	} else {
		article, err = s.articles.GetBySlug(ctx, slugOrID)
	}
	if err != nil {
		return nil, fmt.Errorf("article lookup failed: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	s.cache.Set(cache.KeyArticle(slugOrID), article)
	return article, nil
}

// List returns one fixed-size page of articles newest-first, optionally
// filtered by category id.
func (s *articleService) List(ctx context.Context, page int, categoryID *int64) (*models.ArticleList, error) {
	if page < 1 {
		return nil, invalidField("page", "page must be a positive integer")
	}

	cacheCategory := ""
	if categoryID != nil {
		cacheCategory = strconv.FormatInt(*categoryID, 10)
	}
	key := cache.KeyArticleList(page, cacheCategory)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.ArticleList), nil
	}

	offset := (page - 1) * pageSize
	articles, total, err := s.articles.List(ctx, pageSize, offset, categoryID)
	if err != nil {
		return nil, fmt.Errorf("article listing failed: %w", err)
	}

	list := &models.ArticleList{
		Data:        articles,
		Total:       total,
		CurrentPage: page,
		TotalPages:  (total + pageSize - 1) / pageSize,
	}

	s.cache.Set(key, list)
	return list, nil
}

// CountByCategory aggregates article counts per category label
func (s *articleService) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	if cached, ok := s.cache.Get(cache.KeyCategoryCounts()); ok {
		return cached.([]models.CategoryCount), nil
	}

	counts, err := s.articles.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("category aggregation failed: %w", err)
	}
	if len(counts) == 0 {
		return nil, ErrNoArticles
	}

	s.cache.Set(cache.KeyCategoryCounts(), counts)
	return counts, nil
}

// CheckOrGenerateSlug probes storage for the candidate slug and, when it is
// taken, walks numeric suffixes until the first free one. The probe loop is
// bounded; exhausting it is a server error rather than an endless request.
// With no intervening writes the result is deterministic.
func (s *articleService) CheckOrGenerateSlug(ctx context.Context, slug string) (*SlugCheck, error) {
	slug = strings.TrimSpace(slug)
	if errs := validation.ValidateSlug(slug); len(errs) > 0 {
		return nil, invalidInput(errs...)
	}

	taken, err := s.slugTaken(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !taken {
		return &SlugCheck{Exists: false, UniqueSlug: slug}, nil
	}

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := fmt.Sprintf("%s_%d", slug, n)
		taken, err := s.slugTaken(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !taken {
			return &SlugCheck{Exists: true, UniqueSlug: candidate}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s after %d attempts", ErrSlugExhausted, slug, maxSlugAttempts)
}

func (s *articleService) slugTaken(ctx context.Context, slug string) (bool, error) {
	exists, err := s.store.Exists(ctx, storage.KindRaw, storage.MarkdownPath(s.folder, slug))
	if err != nil {
		return false, fmt.Errorf("slug existence check failed: %w", err)
	}
	return exists, nil
}

// UploadTitleImage normalizes the image to the fixed title aspect and stores
// it under the slug's folder. It does not touch the database; the caller
// associates the returned URL with an article separately.
func (s *articleService) UploadTitleImage(ctx context.Context, slug, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", invalidField("imageTitleData", "image file is required")
	}
	if errs := validation.ValidateSlug(slug); len(errs) > 0 {
		return "", invalidInput(errs...)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", invalidField("imageTitleData", "file is not a decodable image")
	}

	filled := imaging.Fill(img, titleImageWidth, titleImageHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, filled, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to encode title image: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".jpg"
	path := storage.ImagePath(s.folder, slug, name)

	url, err := s.store.Upload(ctx, buf.Bytes(), storage.KindImage, path, true)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}

	s.log.Info().Str("slug", slug).Str("image", name).Msg("Title image uploaded")

	return url, nil
}

// extractedFields are the validated front-matter values of one upload
type extractedFields struct {
	author string
	date   string
	image  string
}

// extractAndValidate pulls the front-matter fields out of the buffer,
// applies the documented defaults and validates them. categoryID from the
// request wins over the front-matter category line; an empty reference
// leaves the article uncategorized.
func (s *articleService) extractAndValidate(ctx context.Context, markdown []byte, categoryID string) (*extractedFields, *int64, error) {
	fields := &extractedFields{
		author: metadata.Extract(markdown, metadata.FieldAuthor, defaultAuthor),
		date:   metadata.Extract(markdown, metadata.FieldDate, time.Now().Format("2006-01-02")),
		image:  metadata.Extract(markdown, metadata.FieldImage, ""),
	}

	if categoryID == "" {
		categoryID = metadata.Extract(markdown, metadata.FieldCategory, "")
	}

	var errs []validation.ValidationError
	errs = append(errs, validation.ValidateAuthor(fields.author)...)
	errs = append(errs, validation.ValidateDate(fields.date)...)
	if len(errs) > 0 {
		return nil, nil, invalidInput(errs...)
	}

	if categoryID == "" {
		return fields, nil, nil
	}

	id, err := strconv.ParseInt(categoryID, 10, 64)
	if err != nil {
		return nil, nil, invalidField("categoryId", "categoryId must be a valid integer")
	}

	exists, err := s.categories.Exists(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("category lookup failed: %w", err)
	}
	if !exists {
		return nil, nil, invalidField("categoryId", "referenced category does not exist")
	}

	return fields, &id, nil
}
