// Package storage is the gateway to the remote blob store holding raw
// Markdown files and article images.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Kind partitions the store by object type. Prefix deletes operate on one
// kind at a time.
type Kind string

const (
	// KindRaw is the partition for raw Markdown objects.
	KindRaw Kind = "raw"
	// KindImage is the partition for image objects.
	KindImage Kind = "image"
)

// ErrObjectExists is returned by Upload when overwrite is false and the
// target path is already taken.
var ErrObjectExists = errors.New("object already exists at path")

// Store is the blob store contract the article workflows depend on.
type Store interface {
	// Upload stores data at the given path and returns its public URL.
	// With overwrite false the call fails with ErrObjectExists if the path
	// is taken; with overwrite true it replaces the object idempotently.
	Upload(ctx context.Context, data []byte, kind Kind, path string, overwrite bool) (string, error)

	// Exists reports whether an object is present at the path.
	Exists(ctx context.Context, kind Kind, path string) (bool, error)

	// DeletePrefix removes every object of the given kind under the prefix.
	DeletePrefix(ctx context.Context, kind Kind, prefix string) error

	// DeleteFolder removes the folder markers left after the objects under
	// a path have been deleted.
	DeleteFolder(ctx context.Context, path string) error
}

// ArticleFolder returns the path segment grouping all objects of one slug.
func ArticleFolder(baseFolder, slug string) string {
	return fmt.Sprintf("%s/%s", baseFolder, slug)
}

// MarkdownPath returns the canonical path of the Markdown object for a slug.
func MarkdownPath(baseFolder, slug string) string {
	return fmt.Sprintf("%s/%s/%s.md", baseFolder, slug, slug)
}

// ImagePath returns the path of a named image stored under a slug's folder.
func ImagePath(baseFolder, slug, name string) string {
	return fmt.Sprintf("%s/%s/%s", baseFolder, slug, name)
}
