package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/config"
)

// deleteBatchSize is the DeleteObjects API limit.
const deleteBatchSize = 1000

// S3Store implements Store against any S3-compatible object store. Objects
// are keyed `<kind>/<path>` so the two partitions can be listed and deleted
// independently.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	log     zerolog.Logger
}

// NewS3Store creates the blob store gateway from configuration. A non-empty
// Endpoint switches the client to path-style addressing for self-hosted
// S3-compatible stores.
func NewS3Store(ctx context.Context, cfg *config.StorageConfig, log zerolog.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		log:     log.With().Str("component", "storage").Logger(),
	}, nil
}

func objectKey(kind Kind, path string) string {
	return fmt.Sprintf("%s/%s", kind, path)
}

// Upload stores the buffer and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, data []byte, kind Kind, path string, overwrite bool) (string, error) {
	key := objectKey(kind, path)

	if !overwrite {
		exists, err := s.Exists(ctx, kind, path)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("%w: %s", ErrObjectExists, path)
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(kind, data)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	s.log.Debug().
		Str("key", key).
		Int("size_bytes", len(data)).
		Bool("overwrite", overwrite).
		Msg("Object uploaded")

	return s.baseURL + "/" + key, nil
}

// Exists checks object presence with a HEAD request.
func (s *S3Store) Exists(ctx context.Context, kind Kind, path string) (bool, error) {
	key := objectKey(kind, path)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s: %w", key, err)
	}

	return true, nil
}

// DeletePrefix lists and deletes every object of one kind under the prefix.
func (s *S3Store) DeletePrefix(ctx context.Context, kind Kind, prefix string) error {
	keyPrefix := objectKey(kind, prefix)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(keyPrefix),
	})

	var identifiers []types.ObjectIdentifier
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects under %s: %w", keyPrefix, err)
		}
		for _, obj := range page.Contents {
			identifiers = append(identifiers, types.ObjectIdentifier{Key: obj.Key})
		}
	}

	if len(identifiers) == 0 {
		return nil
	}

	for start := 0; start < len(identifiers); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(identifiers) {
			end = len(identifiers)
		}

		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: identifiers[start:end],
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects under %s: %w", keyPrefix, err)
		}
	}

	s.log.Info().
		Str("prefix", keyPrefix).
		Int("deleted", len(identifiers)).
		Msg("Prefix deleted")

	return nil
}

// DeleteFolder removes the zero-byte folder markers for both kinds. Deleting
// a missing marker is a no-op on S3.
func (s *S3Store) DeleteFolder(ctx context.Context, path string) error {
	for _, kind := range []Kind{KindRaw, KindImage} {
		key := objectKey(kind, path) + "/"
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to delete folder %s: %w", key, err)
		}
	}
	return nil
}

// contentType picks the stored Content-Type. Markdown sniffs as plain text,
// so pin it; images are sniffed from the buffer.
func contentType(kind Kind, data []byte) string {
	if kind == KindRaw {
		return "text/markdown; charset=utf-8"
	}
	return http.DetectContentType(data)
}
