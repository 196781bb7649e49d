package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	storage "github.com/supabase-community/storage-go"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// SupabaseStorage stores files in a public Supabase Storage bucket
type SupabaseStorage struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

// NewSupabaseStorage creates a client for projectURL (e.g. https://xyz.supabase.co)
func NewSupabaseStorage(projectURL, apiKey, bucket string) *SupabaseStorage {
	projectURL = strings.TrimRight(projectURL, "/")
	return &SupabaseStorage{
		client:  storage.NewClient(projectURL+"/storage/v1", apiKey, nil),
		baseURL: projectURL,
		bucket:  bucket,
	}
}

func (s *SupabaseStorage) publicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", s.baseURL, s.bucket)
}

// SaveFileWithPath uploads a file to the bucket and returns its public URL
func (s *SupabaseStorage) SaveFileWithPath(_ context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	key, err := cleanKey(objectKey(subPath, fileHeader.Filename))
	if err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{ContentType: &contentType}
	if _, err := s.client.UploadFile(s.bucket, key, file, options); err != nil {
		logger.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("Supabase upload failed")
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.publicPrefix() + key, nil
}

// DeleteFile removes the object behind a public URL of this bucket
func (s *SupabaseStorage) DeleteFile(_ context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	rest, ok := strings.CutPrefix(fileURL, s.publicPrefix())
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPath, fileURL)
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}
	key, err := cleanKey(rest)
	if err != nil {
		return err
	}

	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		logger.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("Supabase delete failed")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
