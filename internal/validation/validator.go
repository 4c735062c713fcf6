package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blog-content-api/internal/models"
)

var (
	slugRegex   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	authorRegex = regexp.MustCompile(`^[a-zA-Z]+$`)
	labelRegex  = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
)

// dateLayouts are the calendar-date formats accepted in front matter.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface so a single validation failure can be
// passed around as an error value.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSlug checks the URL-safe slug format: lowercase letters, digits and
// hyphens, hyphen-separated groups only.
func ValidateSlug(slug string) []ValidationError {
	var errors []ValidationError

	if slug == "" {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug is required"})
		return errors
	}
	if len(slug) > 255 {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug must not exceed 255 characters", Value: slug})
		return errors
	}
	if !slugRegex.MatchString(slug) {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug must only contain lowercase letters, numbers, and hyphens", Value: slug})
	}

	return errors
}

// ValidateAuthor checks that the author name contains only letters once
// whitespace is stripped.
func ValidateAuthor(author string) []ValidationError {
	var errors []ValidationError

	if author == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
		return errors
	}
	if len(author) > 255 {
		errors = append(errors, ValidationError{Field: "author", Message: "author must not exceed 255 characters", Value: author})
		return errors
	}

	stripped := strings.Join(strings.Fields(author), "")
	if !authorRegex.MatchString(stripped) {
		errors = append(errors, ValidationError{Field: "author", Message: "author must only contain letters and spaces", Value: author})
	}

	return errors
}

// ValidateDate checks that the value parses as a calendar date in one of the
// accepted layouts. The value is stored as-is, not normalized.
func ValidateDate(date string) []ValidationError {
	var errors []ValidationError

	if date == "" {
		errors = append(errors, ValidationError{Field: "date", Message: "date is required"})
		return errors
	}

	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, date); err == nil {
			return nil
		}
	}

	errors = append(errors, ValidationError{Field: "date", Message: "date must be a valid calendar date", Value: date})
	return errors
}

// ValidateCategoryLabel checks the category display name: letters, digits and
// spaces, required, bounded length.
func ValidateCategoryLabel(label string) []ValidationError {
	var errors []ValidationError

	if label == "" {
		errors = append(errors, ValidationError{Field: "label", Message: "label is required"})
		return errors
	}
	if len(label) > models.MaxCategoryLabelLength {
		errors = append(errors, ValidationError{
			Field:   "label",
			Message: fmt.Sprintf("label must not exceed %d characters", models.MaxCategoryLabelLength),
			Value:   label,
		})
		return errors
	}
	if !labelRegex.MatchString(label) {
		errors = append(errors, ValidationError{Field: "label", Message: "label must only contain letters, numbers, and spaces", Value: label})
	}

	return errors
}
