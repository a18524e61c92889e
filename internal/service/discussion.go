package service

import (
	"errors"
	"net/http"

	"github.com/ermnvldmr/wboard/internal/authz"
	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
	"github.com/ermnvldmr/wboard/internal/markdown"
)

type DiscussionService interface {
	Create(data domain.DiscussionCreationData) (domain.DiscussionId, error)
	GetByPost(postId domain.PostId) ([]domain.Discussion, error)
	GetByUser(userId domain.UserId) ([]domain.Discussion, error)
	Delete(id domain.DiscussionId, actor domain.User) error
}

type Discussion struct {
	storage  DiscussionStorage
	posts    PostChecker
	renderer *markdown.Renderer
}

type DiscussionStorage interface {
	CreateDiscussion(data domain.DiscussionCreationData) (domain.DiscussionId, error)
	GetDiscussion(id domain.DiscussionId) (*domain.Discussion, error)
	GetDiscussionsByPost(postId domain.PostId) ([]domain.Discussion, error)
	GetDiscussionsByUser(userId domain.UserId) ([]domain.Discussion, error)
	DeleteDiscussion(id domain.DiscussionId) error
}

// PostChecker is the slice of post storage the discussion service needs:
// existence checks before attaching.
type PostChecker interface {
	GetPost(id domain.PostId) (*domain.Post, error)
}

func NewDiscussion(storage DiscussionStorage, posts PostChecker, renderer *markdown.Renderer) *Discussion {
	return &Discussion{storage: storage, posts: posts, renderer: renderer}
}

// PrepareAttach validates the attach request and builds the node to
// persist. A parent id must resolve (ErrParentNotFound) and belong to the
// same post (ErrParentMismatch). It never writes; Create persists.
func (d *Discussion) PrepareAttach(postId domain.PostId, parentId *domain.DiscussionId, author domain.User, text string) (*domain.DiscussionCreationData, error) {
	if parentId != nil {
		parent, err := d.storage.GetDiscussion(*parentId)
		if err != nil {
			var statusErr *internal_errors.ErrorWithStatusCode
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
				return nil, internal_errors.ErrParentNotFound
			}
			return nil, err
		}
		if parent.PostId != postId {
			return nil, internal_errors.ErrParentMismatch
		}
	}

	return &domain.DiscussionCreationData{
		PostId:   postId,
		Author:   author,
		ParentId: parentId,
		Text:     text,
	}, nil
}

func (d *Discussion) Create(data domain.DiscussionCreationData) (domain.DiscussionId, error) {
	// The post must exist before anything attaches to it
	if _, err := d.posts.GetPost(data.PostId); err != nil {
		return 0, err
	}

	prepared, err := d.PrepareAttach(data.PostId, data.ParentId, data.Author, data.Text)
	if err != nil {
		return 0, err
	}

	return d.storage.CreateDiscussion(*prepared)
}

func (d *Discussion) GetByPost(postId domain.PostId) ([]domain.Discussion, error) {
	if _, err := d.posts.GetPost(postId); err != nil {
		return nil, err
	}

	discussions, err := d.storage.GetDiscussionsByPost(postId)
	if err != nil {
		return nil, err
	}
	for i := range discussions {
		discussions[i].Html = d.renderer.Render(discussions[i].Text)
	}
	return discussions, nil
}

func (d *Discussion) GetByUser(userId domain.UserId) ([]domain.Discussion, error) {
	return d.storage.GetDiscussionsByUser(userId)
}

func (d *Discussion) Delete(id domain.DiscussionId, actor domain.User) error {
	discussion, err := d.storage.GetDiscussion(id)
	if err != nil {
		return err
	}

	if !authz.CanDelete(actor.Id, actor.Admin, discussion.Author.Id) {
		return &internal_errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}
	}

	return d.storage.DeleteDiscussion(id)
}
