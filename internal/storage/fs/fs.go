// Package fs stores uploaded media on the local filesystem under opaque
// uuid keys; the keys are what ends up in the posts.media column.
package fs

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "media/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Save writes file data under a fresh uuid key, preserving the original
// extension so clients can infer the content type. Returns the key.
func (s *Storage) Save(fileData io.Reader, originalExtension string) (string, error) {
	// Clean the extension to prevent shenanigans like ".jpg/../../foo.txt"
	cleanExtension := filepath.Clean(originalExtension)
	key := uuid.NewString() + cleanExtension
	fullPath := filepath.Join(s.rootPath, key)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, fileData); err != nil {
		// If the copy fails, clean up the partial file. Best effort.
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return key, nil
}

func (s *Storage) Read(key string) (io.ReadCloser, error) {
	// Reject keys that escape the root
	cleanKey := filepath.Clean(key)
	if cleanKey != key || filepath.IsAbs(cleanKey) || cleanKey == ".." || len(cleanKey) > 0 && cleanKey[0] == '.' {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "invalid media key", StatusCode: http.StatusBadRequest}
	}

	file, err := os.Open(filepath.Join(s.rootPath, cleanKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Media not found", StatusCode: http.StatusNotFound}
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *Storage) Delete(key string) error {
	return os.Remove(filepath.Join(s.rootPath, filepath.Clean(key)))
}
