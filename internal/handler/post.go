package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ermnvldmr/wboard/internal/domain"
	"github.com/ermnvldmr/wboard/internal/middleware"
	"github.com/ermnvldmr/wboard/internal/utils"
)

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	type bodyJson struct {
		Title string `validate:"required" json:"title"`
		Text  string `validate:"required" json:"text"`
	}
	body, uploads, cleanup, err := parseMultipartRequest[bodyJson](r, h)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer cleanup()

	postId, err := h.posts.Create(domain.PostCreationData{
		Title:  body.Title,
		Text:   body.Text,
		Author: *user,
	}, uploads)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%d", postId)
}

// GetPost returns a post and counts the view. The viewer identity comes
// from OptionalAuth when a token is present, the remote address otherwise.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(mux.Vars(r)["post"], "post ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	viewer, err := middleware.GetViewer(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.posts.Get(postId, viewer)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, post)
}

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAll()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, posts)
}

func (h *Handler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	userId, err := parseIdParam(mux.Vars(r)["user"], "user ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	posts, err := h.posts.GetByUser(userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, posts)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(mux.Vars(r)["post"], "post ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actor := middleware.GetUserFromContext(r)
	if actor == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.posts.Delete(postId, *actor); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
