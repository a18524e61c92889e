package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ermnvldmr/wboard/internal/config"
	"github.com/ermnvldmr/wboard/internal/logger"
	"github.com/ermnvldmr/wboard/internal/service"
)

// MediaReader is the read side of media storage, used to serve files.
type MediaReader interface {
	Read(key string) (io.ReadCloser, error)
}

// Pinger reports backing store health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth        service.AuthService
	posts       service.PostService
	discussions service.DiscussionService
	votes       service.VoteService
	media       MediaReader
	health      Pinger
	cfg         *config.Config
}

func New(
	auth service.AuthService,
	posts service.PostService,
	discussions service.DiscussionService,
	votes service.VoteService,
	media MediaReader,
	health Pinger,
	cfg *config.Config,
) *Handler {
	return &Handler{auth, posts, discussions, votes, media, health, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
