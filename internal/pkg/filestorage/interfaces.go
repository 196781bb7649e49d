package filestorage

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for object keys that escape the storage root
var ErrInvalidPath = errors.New("invalid file path")

// FileStorage stores uploaded files and hands back a URL clients can fetch them from
type FileStorage interface {
	// SaveFileWithPath saves a file under subPath and returns its public URL
	SaveFileWithPath(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes the object behind a URL returned by SaveFileWithPath.
	// Deleting a missing object is not an error.
	DeleteFile(ctx context.Context, fileURL string) error
}

// objectKey builds "<subPath>/<uuid><ext>" for an upload
func objectKey(subPath, filename string) string {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	if subPath == "" {
		return name
	}
	return path.Join(subPath, name)
}

// cleanKey rejects keys that are empty or climb out of the root
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", ErrInvalidPath
	}
	return key, nil
}
