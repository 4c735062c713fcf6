package models

import (
	"time"
)

// Article represents a published Markdown article. The Markdown body itself
// lives in the blob store; FileURL points at it. Slug is the natural business
// key and doubles as the storage path segment for the article's objects.
type Article struct {
	ID         string    `json:"id" db:"id"`
	Slug       string    `json:"slug" db:"slug"`
	Title      string    `json:"title" db:"title"`
	CategoryID *int64    `json:"categoryId,omitempty" db:"category_id"`
	Author     string    `json:"author" db:"author"`
	Date       string    `json:"date" db:"date"`
	Image      string    `json:"image,omitempty" db:"image"`
	FileURL    string    `json:"fileUrl" db:"file_url"`
	Protected  bool      `json:"protected" db:"protected"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// ArticleWithCategory is an Article with the joined category display fields.
type ArticleWithCategory struct {
	Article
	Category *CategoryRef `json:"category,omitempty"`
}

// CategoryRef carries the category fields embedded in article responses.
type CategoryRef struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// ArticleList is one page of articles plus pagination metadata.
type ArticleList struct {
	Data        []ArticleWithCategory `json:"data"`
	Total       int                   `json:"total"`
	CurrentPage int                   `json:"currentPage"`
	TotalPages  int                   `json:"totalPages"`
}

// CategoryCount is one row of the per-category article aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
