package service

import (
	"net/http"

	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

type VoteService interface {
	Cast(postId domain.PostId, userId domain.UserId, value int) (int64, error)
	Retract(postId domain.PostId, userId domain.UserId) (int64, error)
}

type Vote struct {
	storage VoteStorage
}

type VoteStorage interface {
	UpsertVote(postId domain.PostId, userId domain.UserId, value int) error
	DeleteVote(postId domain.PostId, userId domain.UserId) error
	GetPostScore(postId domain.PostId) (int64, error)
}

func NewVote(storage VoteStorage) *Vote {
	return &Vote{storage: storage}
}

// Cast casts or changes a vote and returns the post's new score.
func (v *Vote) Cast(postId domain.PostId, userId domain.UserId, value int) (int64, error) {
	if value != 1 && value != -1 {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Vote value must be 1 or -1", StatusCode: http.StatusBadRequest}
	}
	if err := v.storage.UpsertVote(postId, userId, value); err != nil {
		return 0, err
	}
	return v.storage.GetPostScore(postId)
}

// Retract removes the user's vote and returns the post's new score.
func (v *Vote) Retract(postId domain.PostId, userId domain.UserId) (int64, error) {
	if err := v.storage.DeleteVote(postId, userId); err != nil {
		return 0, err
	}
	return v.storage.GetPostScore(postId)
}
