package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real *multipart.FileHeader by round-tripping a form.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	content := []byte("fake png bytes")

	img, err := SaveImage(fileHeader(t, "piece.png", content), dir, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(img.RelPath))

	stored, err := os.ReadFile(filepath.Join(dir, img.RelPath))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	sum := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), img.SHA256)
}

func TestSaveImageSameContentSameHash(t *testing.T) {
	dir := t.TempDir()
	content := []byte("identical bytes")

	a, err := SaveImage(fileHeader(t, "a.jpg", content), dir, 0)
	require.NoError(t, err)
	b, err := SaveImage(fileHeader(t, "b.jpg", content), dir, 0)
	require.NoError(t, err)

	// Distinct files on disk, identical content hash: this is what lets
	// the portfolio dedupe re-uploads.
	assert.NotEqual(t, a.RelPath, b.RelPath)
	assert.Equal(t, a.SHA256, b.SHA256)
}

func TestSaveImageRejectsBadExtension(t *testing.T) {
	_, err := SaveImage(fileHeader(t, "notes.txt", []byte("hi")), t.TempDir(), 1<<20)
	assert.ErrorIs(t, err, ErrBadImageType)
}

func TestSaveImageRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	_, err := SaveImage(fileHeader(t, "big.png", bytes.Repeat([]byte("x"), 100)), dir, 10)
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	// Nothing should be left behind.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
