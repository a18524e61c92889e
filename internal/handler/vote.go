package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ermnvldmr/wboard/internal/middleware"
	"github.com/ermnvldmr/wboard/internal/utils"
)

func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
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
		Value int `validate:"required" json:"value"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	score, err := h.votes.Cast(postId, user.Id, body.Value)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]int64{"score": score})
}

func (h *Handler) RetractVote(w http.ResponseWriter, r *http.Request) {
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

	score, err := h.votes.Retract(postId, user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]int64{"score": score})
}
