package service

import (
	"io"
	"net/http"
	"time"

	"github.com/ermnvldmr/wboard/internal/authz"
	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
	"github.com/ermnvldmr/wboard/internal/logger"
	"github.com/ermnvldmr/wboard/internal/markdown"
	"github.com/ermnvldmr/wboard/internal/validation"
)

type PostService interface {
	Create(data domain.PostCreationData, uploads []*validation.PendingUpload) (domain.PostId, error)
	Get(id domain.PostId, viewer domain.Viewer) (*domain.Post, error)
	GetAll() ([]domain.Post, error)
	GetByUser(userId domain.UserId) ([]domain.Post, error)
	Delete(id domain.PostId, actor domain.User) error
}

type Post struct {
	storage  PostStorage
	media    MediaStorage
	views    ViewAdmitter
	renderer *markdown.Renderer
	now      func() time.Time
}

type PostStorage interface {
	CreatePost(data domain.PostCreationData) (domain.PostId, error)
	GetPost(id domain.PostId) (*domain.Post, error)
	GetPosts() ([]domain.Post, error)
	GetPostsByUser(userId domain.UserId) ([]domain.Post, error)
	DeletePost(id domain.PostId) error
	IncrementPostViews(id domain.PostId) error
}

type MediaStorage interface {
	Save(fileData io.Reader, originalExtension string) (string, error)
	Delete(key string) error
}

// ViewAdmitter decides whether a view counts. Implemented by
// viewcache.Cache.
type ViewAdmitter interface {
	Admit(postId domain.PostId, viewer domain.Viewer, now time.Time) bool
}

func NewPost(storage PostStorage, media MediaStorage, views ViewAdmitter, renderer *markdown.Renderer) *Post {
	return &Post{
		storage:  storage,
		media:    media,
		views:    views,
		renderer: renderer,
		now:      time.Now,
	}
}

func (p *Post) Create(data domain.PostCreationData, uploads []*validation.PendingUpload) (domain.PostId, error) {
	if len(uploads) > 0 {
		var keys domain.Media
		for _, up := range uploads {
			key, err := p.media.Save(up.Data, up.Extension)
			if err != nil {
				// Roll back files already written. Best effort.
				for _, k := range keys {
					p.media.Delete(k)
				}
				return 0, err
			}
			keys = append(keys, key)
		}
		data.Media = &keys
	}

	id, err := p.storage.CreatePost(data)
	if err != nil {
		if data.Media != nil {
			for _, k := range *data.Media {
				p.media.Delete(k)
			}
		}
		return 0, err
	}
	return id, nil
}

// Get fetches a post and counts the view if the dedup cache admits it.
// A failed counter update doesn't fail the read.
func (p *Post) Get(id domain.PostId, viewer domain.Viewer) (*domain.Post, error) {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return nil, err
	}

	if p.views.Admit(id, viewer, p.now()) {
		if err := p.storage.IncrementPostViews(id); err != nil {
			logger.Log.Error("failed to increment view counter",
				"post_id", id, "error", err)
		} else {
			post.Views++
		}
	}

	post.Html = p.renderer.Render(post.Text)
	return post, nil
}

func (p *Post) GetAll() ([]domain.Post, error) {
	return p.storage.GetPosts()
}

func (p *Post) GetByUser(userId domain.UserId) ([]domain.Post, error) {
	return p.storage.GetPostsByUser(userId)
}

func (p *Post) Delete(id domain.PostId, actor domain.User) error {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return err
	}

	if !authz.CanDelete(actor.Id, actor.Admin, post.Author.Id) {
		return &internal_errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}
	}

	if err := p.storage.DeletePost(id); err != nil {
		return err
	}

	if post.Media != nil {
		for _, key := range *post.Media {
			if err := p.media.Delete(key); err != nil {
				logger.Log.Warn("failed to delete media file", "key", key, "error", err)
			}
		}
	}
	return nil
}
