package models

import (
	"time"
)

// Category groups articles. Articles reference it by surrogate id; the label
// is what clients display and filter on.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Label     string    `json:"label" db:"label"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// MaxCategoryLabelLength bounds the category display name.
const MaxCategoryLabelLength = 255
