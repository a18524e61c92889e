package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ermnvldmr/wboard/internal/domain"
	"github.com/ermnvldmr/wboard/internal/middleware"
	"github.com/ermnvldmr/wboard/internal/utils"
)

func (h *Handler) CreateDiscussion(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(mux.Vars(r)["post"], "post ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	type bodyJson struct {
		Text     string               `validate:"required" json:"text"`
		ParentId *domain.DiscussionId `json:"parent_id"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	discussionId, err := h.discussions.Create(domain.DiscussionCreationData{
		PostId:   postId,
		Author:   *user,
		ParentId: body.ParentId,
		Text:     body.Text,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%d", discussionId)
}

func (h *Handler) GetDiscussions(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(mux.Vars(r)["post"], "post ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	discussions, err := h.discussions.GetByPost(postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, discussions)
}

func (h *Handler) GetUserDiscussions(w http.ResponseWriter, r *http.Request) {
	userId, err := parseIdParam(mux.Vars(r)["user"], "user ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	discussions, err := h.discussions.GetByUser(userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, discussions)
}

func (h *Handler) DeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	discussionId, err := parseIdParam(mux.Vars(r)["discussion"], "discussion ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actor := middleware.GetUserFromContext(r)
	if actor == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.discussions.Delete(discussionId, *actor); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
