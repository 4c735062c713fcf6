package service

import (
	"errors"

	"github.com/blog-content-api/internal/validation"
)

// Sentinel errors the handlers map onto HTTP statuses.
var (
	// ErrArticleNotFound means no article row matches the slug or id.
	ErrArticleNotFound = errors.New("article not found")

	// ErrCategoryNotFound means a referenced category id has no row.
	ErrCategoryNotFound = errors.New("category does not exist")

	// ErrNoArticles means an aggregation ran over an empty article table.
	ErrNoArticles = errors.New("no articles found")

	// ErrSlugTaken means a create tried to claim a slug whose storage path
	// is already occupied.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrSlugExhausted means the resolver hit its attempt cap without
	// finding a free suffix.
	ErrSlugExhausted = errors.New("could not generate a unique slug")
)

// InvalidInputError carries field-level validation failures to the handler
// layer, which renders them as a 400 response.
type InvalidInputError struct {
	Errors []validation.ValidationError
}

func (e *InvalidInputError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid input"
	}
	return e.Errors[0].Error()
}

func invalidInput(errs ...validation.ValidationError) *InvalidInputError {
	return &InvalidInputError{Errors: errs}
}

func invalidField(field, message string) *InvalidInputError {
	return invalidInput(validation.ValidationError{Field: field, Message: message})
}
