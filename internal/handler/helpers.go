package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
	"github.com/ermnvldmr/wboard/internal/utils"
	"github.com/ermnvldmr/wboard/internal/validation"
)

// parseMultipartRequest parses a multipart form request: the JSON payload
// from the "json" field plus any uploaded files from the "media" field.
// Returns the parsed body, pending uploads, and a cleanup function.
func parseMultipartRequest[T any](r *http.Request, h *Handler) (body T, uploads []*validation.PendingUpload, cleanup func(), err error) {
	// Leave headroom for the JSON part on top of the media budget
	maxRequestSize := h.cfg.Public.MaxMediaSize*int64(h.cfg.Public.MaxMediaPerPost) + 1<<20
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestSize)
	if err = r.ParseMultipartForm(maxRequestSize); err != nil {
		err = &internal_errors.ErrorWithStatusCode{
			Message:    "request exceeds the upload size limit",
			StatusCode: http.StatusRequestEntityTooLarge,
		}
		return
	}

	jsonPayload := r.FormValue("json")
	if jsonPayload == "" {
		err = &internal_errors.ErrorWithStatusCode{
			Message:    "missing JSON payload in multipart form",
			StatusCode: http.StatusBadRequest,
		}
		return
	}

	if err = utils.DecodeValidate(io.NopCloser(strings.NewReader(jsonPayload)), &body); err != nil {
		return
	}

	files := r.MultipartForm.File["media"]
	if len(files) > h.cfg.Public.MaxMediaPerPost {
		err = &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("too many files: at most %d allowed", h.cfg.Public.MaxMediaPerPost),
			StatusCode: http.StatusBadRequest,
		}
		return
	}
	if len(files) > 0 {
		uploads, err = validation.ValidateMedia(
			files,
			h.cfg.Public.AllowedImageMimeTypes,
			h.cfg.Public.MaxMediaSize,
			h.cfg.Public.MaxImagePixels,
		)
		if err != nil {
			return
		}

		cleanup = func() {
			for _, up := range uploads {
				up.Data.Close()
			}
		}
	} else {
		cleanup = func() {} // No-op if no files
	}

	return
}

// parseIdParam parses an int64 path parameter and returns a meaningful error
func parseIdParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}
