package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/ermnvldmr/wboard/internal/utils"
)

// GetMedia streams a stored media file. Keys are opaque uuid-based names,
// so the Content-Type comes from the key's extension.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	file, err := h.media.Read(key)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer file.Close()

	if mimeType := mime.TypeByExtension(filepath.Ext(key)); mimeType != "" {
		w.Header().Set("Content-Type", mimeType)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	// Headers are already sent, a copy error can't change the response
	_, _ = io.Copy(w, file)
}
