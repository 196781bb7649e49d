package filestorage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := ls.SaveFileWithPath(ctx, multipartFile(t, "Report.PDF", "hello"), "submissions/3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/submissions/3/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	key := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, ls.DeleteFile(ctx, url))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// second delete is a no-op
	assert.NoError(t, ls.DeleteFile(ctx, url))
}

func TestLocalStorageDeleteStaysInsideRoot(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	t.Cleanup(func() { _ = os.Remove(outside) })

	ls, err := NewLocalStorage(dir, "http://h/uploads")
	require.NoError(t, err)

	_ = ls.DeleteFile(context.Background(), "http://h/uploads/../keep.txt")
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestCleanKey(t *testing.T) {
	key, err := cleanKey("/a/../b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "b/c.txt", key)

	_, err = cleanKey("")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
