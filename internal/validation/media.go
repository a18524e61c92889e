// Package validation checks uploaded media before it touches disk.
package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	_ "golang.org/x/image/webp"

	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

var ErrInvalidMimeType = &internal_errors.ErrorWithStatusCode{
	Message:    "unsupported media type",
	StatusCode: http.StatusUnsupportedMediaType,
}

// PendingUpload is a validated file waiting to be written to storage.
type PendingUpload struct {
	Filename  string
	Extension string
	MimeType  string
	SizeBytes int64
	Data      multipart.File
}

// ValidateMedia opens and validates every uploaded file. On success it
// returns pending uploads whose Data the caller must close. On failure it
// closes everything opened so far and returns the error.
func ValidateMedia(fileHeaders []*multipart.FileHeader, allowedMimes []string, maxFileSize, maxImagePixels int64) ([]*PendingUpload, error) {
	if len(fileHeaders) == 0 {
		return nil, nil
	}

	allowed := make(map[string]bool, len(allowedMimes))
	for _, m := range allowedMimes {
		allowed[m] = true
	}

	var pending []*PendingUpload
	closeAll := func() {
		for _, p := range pending {
			p.Data.Close()
		}
	}

	for _, fileHeader := range fileHeaders {
		if maxFileSize > 0 && fileHeader.Size > maxFileSize {
			closeAll()
			return nil, &internal_errors.ErrorWithStatusCode{
				Message:    fmt.Sprintf("file %s exceeds the %d byte limit", fileHeader.Filename, maxFileSize),
				StatusCode: http.StatusRequestEntityTooLarge,
			}
		}

		mimeType, err := detectMimeType(fileHeader)
		if err != nil {
			closeAll()
			return nil, err
		}
		if !allowed[mimeType] {
			closeAll()
			return nil, ErrInvalidMimeType
		}

		file, err := fileHeader.Open()
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		// Check claimed dimensions before anything decodes the image.
		// A crafted header can claim 65535x65535 and blow up memory later.
		if err := checkImageDimensions(file, maxImagePixels); err != nil {
			file.Close()
			closeAll()
			return nil, err
		}

		pending = append(pending, &PendingUpload{
			Filename:  fileHeader.Filename,
			Extension: filepath.Ext(fileHeader.Filename),
			MimeType:  mimeType,
			SizeBytes: fileHeader.Size,
			Data:      file,
		})
	}

	return pending, nil
}

func detectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := mime.TypeByExtension(filepath.Ext(fileHeader.Filename)); detected != "" {
			mimeType = detected
		}
	}

	if mimeType == "" {
		return "", ErrInvalidMimeType
	}
	return mimeType, nil
}

func checkImageDimensions(file multipart.File, maxImagePixels int64) error {
	cfg, _, err := image.DecodeConfig(file)
	file.Seek(0, 0)
	if err != nil {
		return &internal_errors.ErrorWithStatusCode{Message: "file is not a decodable image", StatusCode: http.StatusBadRequest}
	}
	if maxImagePixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("image too large: %dx%d pixels", cfg.Width, cfg.Height),
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}
	return nil
}
