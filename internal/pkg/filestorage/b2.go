package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/kurin/blazer/b2"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// B2Storage stores files in a public Backblaze B2 bucket
type B2Storage struct {
	bucket *b2.Bucket
}

// NewB2Storage authorizes the account and resolves the bucket
func NewB2Storage(ctx context.Context, accountID, appKey, bucketName string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}

	return &B2Storage{bucket: bucket}, nil
}

func (s *B2Storage) publicPrefix() string {
	return fmt.Sprintf("%s/file/%s/", strings.TrimRight(s.bucket.BaseURL(), "/"), s.bucket.Name())
}

// SaveFileWithPath streams the upload into the bucket and returns its public URL
func (s *B2Storage) SaveFileWithPath(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	key, err := cleanKey(objectKey(subPath, fileHeader.Filename))
	if err != nil {
		return "", err
	}

	w := s.bucket.Object(key).NewWriter(ctx).WithAttrs(&b2.Attrs{
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		logger.Error().Err(err).Str("bucket", s.bucket.Name()).Str("key", key).Msg("B2 upload failed")
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		logger.Error().Err(err).Str("bucket", s.bucket.Name()).Str("key", key).Msg("B2 upload failed")
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return s.publicPrefix() + key, nil
}

// DeleteFile removes the object behind a public URL of this bucket
func (s *B2Storage) DeleteFile(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	rest, ok := strings.CutPrefix(fileURL, s.publicPrefix())
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPath, fileURL)
	}
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}
	key, err := cleanKey(rest)
	if err != nil {
		return err
	}

	if err := s.bucket.Object(key).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		logger.Error().Err(err).Str("bucket", s.bucket.Name()).Str("key", key).Msg("B2 delete failed")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
