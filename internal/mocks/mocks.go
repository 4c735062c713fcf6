// Package mocks provides in-memory test doubles for the repository and
// storage interfaces.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/storage"
)

// MockArticleRepository is an in-memory ArticleRepository keyed by slug.
// Set the error fields to force failures on specific calls.
type MockArticleRepository struct {
	mu       sync.Mutex
	articles map[string]*models.Article
	labels   map[int64]string

	CreateErr error
	UpdateErr error
	GetErr    error
	ListErr   error
	DeleteErr error

	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

// NewMockArticleRepository creates an empty mock article repository.
func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		articles: make(map[string]*models.Article),
		labels:   make(map[int64]string),
	}
}

// Seed inserts an article directly, bypassing error injection.
func (m *MockArticleRepository) Seed(article *models.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *article
	m.articles[article.Slug] = &cp
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.articles[article.Slug]; ok {
		return fmt.Errorf("duplicate slug %q", article.Slug)
	}
	cp := *article
	m.articles[article.Slug] = &cp
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	existing, ok := m.articles[article.Slug]
	if !ok {
		return fmt.Errorf("no article with slug %q", article.Slug)
	}
	article.ID = existing.ID
	article.CreatedAt = existing.CreatedAt
	cp := *article
	m.articles[article.Slug] = &cp
	return nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.ArticleWithCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	article, ok := m.articles[slug]
	if !ok {
		return nil, nil
	}
	return m.withCategory(article), nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.ArticleWithCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, article := range m.articles {
		if article.ID == id {
			return m.withCategory(article), nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return false, m.GetErr
	}
	_, ok := m.articles[slug]
	return ok, nil
}

func (m *MockArticleRepository) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	if _, ok := m.articles[slug]; !ok {
		return false, nil
	}
	delete(m.articles, slug)
	return true, nil
}

func (m *MockArticleRepository) List(ctx context.Context, limit, offset int, categoryID *int64) ([]models.ArticleWithCategory, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}

	var all []*models.Article
	for _, article := range m.articles {
		if categoryID != nil {
			if article.CategoryID == nil || *article.CategoryID != *categoryID {
				continue
			}
		}
		all = append(all, article)
	}
	// Newest first, slug as tiebreaker for deterministic tests.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Slug < all[j].Slug
	})

	total := len(all)
	if offset >= total {
		return []models.ArticleWithCategory{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]models.ArticleWithCategory, 0, end-offset)
	for _, article := range all[offset:end] {
		page = append(page, *m.withCategory(article))
	}
	return page, total, nil
}

func (m *MockArticleRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	counts := make(map[string]int)
	for _, article := range m.articles {
		label := ""
		if article.CategoryID != nil {
			label = m.categoryLabel(*article.CategoryID)
		}
		counts[label]++
	}

	result := make([]models.CategoryCount, 0, len(counts))
	for label, count := range counts {
		result = append(result, models.CategoryCount{Category: label, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (m *MockArticleRepository) withCategory(article *models.Article) *models.ArticleWithCategory {
	out := &models.ArticleWithCategory{Article: *article}
	if article.CategoryID != nil {
		if label, ok := m.labels[*article.CategoryID]; ok {
			out.Category = &models.CategoryRef{ID: *article.CategoryID, Label: label}
		}
	}
	return out
}

// SetCategoryLabel registers a label for the fake join used in reads.
func (m *MockArticleRepository) SetCategoryLabel(id int64, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels[id] = label
}

func (m *MockArticleRepository) categoryLabel(id int64) string {
	return m.labels[id]
}

// MockCategoryRepository is an in-memory CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.Mutex
	categories map[int64]*models.Category
	nextID     int64

	CreateErr error
	GetErr    error
	DeleteErr error
}

// NewMockCategoryRepository creates an empty mock category repository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[int64]*models.Category),
		nextID:     1,
	}
}

// Seed inserts a category with a fixed id.
func (m *MockCategoryRepository) Seed(category *models.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *category
	m.categories[category.ID] = &cp
	if category.ID >= m.nextID {
		m.nextID = category.ID + 1
	}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	category.ID = m.nextID
	m.nextID++
	cp := *category
	m.categories[category.ID] = &cp
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return false, m.CreateErr
	}
	existing, ok := m.categories[category.ID]
	if !ok {
		return false, nil
	}
	category.CreatedAt = existing.CreatedAt
	cp := *category
	m.categories[category.ID] = &cp
	return true, nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	category, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *category
	return &cp, nil
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	all := make([]models.Category, 0, len(m.categories))
	for _, category := range m.categories {
		all = append(all, *category)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Label < all[j].Label })
	return all, nil
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return false, m.GetErr
	}
	_, ok := m.categories[id]
	return ok, nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	if _, ok := m.categories[id]; !ok {
		return false, nil
	}
	delete(m.categories, id)
	return true, nil
}

// MockStore is an in-memory blob store. Objects live in a map keyed by
// kind/path. Call counters record the delete sequence for assertions.
type MockStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	UploadErr       error
	ExistsErr       error
	DeletePrefixErr error
	DeleteFolderErr error

	UploadCalls       int
	DeletePrefixCalls int
	DeleteFolderCalls int
	DeletedPrefixes   []string
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		objects: make(map[string][]byte),
	}
}

// Put seeds an object directly.
func (m *MockStore) Put(kind storage.Kind, path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[m.key(kind, path)] = data
}

// Object returns a stored object's bytes, if present.
func (m *MockStore) Object(kind storage.Kind, path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[m.key(kind, path)]
	return data, ok
}

// Len reports the number of stored objects.
func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *MockStore) Upload(ctx context.Context, data []byte, kind storage.Kind, path string, overwrite bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls++
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	key := m.key(kind, path)
	if !overwrite {
		if _, ok := m.objects[key]; ok {
			return "", fmt.Errorf("%w: %s", storage.ErrObjectExists, path)
		}
	}
	m.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (m *MockStore) Exists(ctx context.Context, kind storage.Kind, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.objects[m.key(kind, path)]
	return ok, nil
}

func (m *MockStore) DeletePrefix(ctx context.Context, kind storage.Kind, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePrefixCalls++
	m.DeletedPrefixes = append(m.DeletedPrefixes, m.key(kind, prefix))
	if m.DeletePrefixErr != nil {
		return m.DeletePrefixErr
	}
	full := m.key(kind, prefix)
	for key := range m.objects {
		if strings.HasPrefix(key, full) {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *MockStore) DeleteFolder(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteFolderCalls++
	if m.DeleteFolderErr != nil {
		return m.DeleteFolderErr
	}
	return nil
}

func (m *MockStore) key(kind storage.Kind, path string) string {
	return fmt.Sprintf("%s/%s", kind, path)
}
