package utils

// upload.go stores multipart image uploads under the configured upload
// directory.  Files are renamed to random hex names so user-supplied
// filenames never touch the filesystem; the SHA-256 of the content is
// computed while copying so the portfolio layer can dedupe re-uploads.

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// ErrUploadTooLarge is returned when a file exceeds the configured cap.
var ErrUploadTooLarge = errors.New("upload too large")

// ErrBadImageType is returned for extensions outside the image whitelist.
var ErrBadImageType = errors.New("unsupported image type")

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// StoredImage describes a persisted upload: the path relative to the upload
// dir (what gets stored in the database) and the content hash for deduping.
type StoredImage struct {
	RelPath string
	SHA256  string
}

// SaveImage validates and writes one multipart file into dir.  The caller
// owns cleanup of already-written files when a later file in a batch fails.
func SaveImage(fh *multipart.FileHeader, dir string, maxBytes int64) (StoredImage, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return StoredImage{}, ErrBadImageType
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return StoredImage{}, ErrUploadTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return StoredImage{}, err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredImage{}, err
	}
	name, err := randomHex(16)
	if err != nil {
		return StoredImage{}, err
	}
	name += ext

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return StoredImage{}, err
	}
	defer dst.Close()

	// Hash while copying; enforce the cap again in case fh.Size lied.
	h := sha256.New()
	var limited io.Reader = src
	if maxBytes > 0 {
		limited = io.LimitReader(src, maxBytes+1)
	}
	n, err := io.Copy(io.MultiWriter(dst, h), limited)
	if err != nil {
		_ = os.Remove(dst.Name())
		return StoredImage{}, err
	}
	if maxBytes > 0 && n > maxBytes {
		_ = os.Remove(dst.Name())
		return StoredImage{}, ErrUploadTooLarge
	}

	return StoredImage{
		RelPath: name,
		SHA256:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}
