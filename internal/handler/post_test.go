package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ermnvldmr/wboard/internal/config"
	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
	"github.com/ermnvldmr/wboard/internal/middleware"
	"github.com/ermnvldmr/wboard/internal/validation"
)

// MockPostService implements the service.PostService interface
type MockPostService struct {
	MockCreate    func(data domain.PostCreationData, uploads []*validation.PendingUpload) (domain.PostId, error)
	MockGet       func(id domain.PostId, viewer domain.Viewer) (*domain.Post, error)
	MockGetAll    func() ([]domain.Post, error)
	MockGetByUser func(userId domain.UserId) ([]domain.Post, error)
	MockDelete    func(id domain.PostId, actor domain.User) error
}

func (m *MockPostService) Create(data domain.PostCreationData, uploads []*validation.PendingUpload) (domain.PostId, error) {
	if m.MockCreate != nil {
		return m.MockCreate(data, uploads)
	}
	return 0, nil
}

func (m *MockPostService) Get(id domain.PostId, viewer domain.Viewer) (*domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(id, viewer)
	}
	return &domain.Post{Id: id}, nil
}

func (m *MockPostService) GetAll() ([]domain.Post, error) {
	if m.MockGetAll != nil {
		return m.MockGetAll()
	}
	return nil, nil
}

func (m *MockPostService) GetByUser(userId domain.UserId) ([]domain.Post, error) {
	if m.MockGetByUser != nil {
		return m.MockGetByUser(userId)
	}
	return nil, nil
}

func (m *MockPostService) Delete(id domain.PostId, actor domain.User) error {
	if m.MockDelete != nil {
		return m.MockDelete(id, actor)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Public: config.Public{
			MaxMediaSize:          1 << 20,
			MaxMediaPerPost:       4,
			AllowedImageMimeTypes: []string{"image/jpeg", "image/png"},
		},
	}
}

func setupPostTestHandler(posts *MockPostService) *mux.Router {
	h := &Handler{posts: posts, cfg: testConfig()}
	router := mux.NewRouter()
	router.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	router.HandleFunc("/posts/{post}", h.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/posts/{post}", h.DeletePost).Methods(http.MethodDelete)
	return router
}

// multipartBody builds a multipart form with the given JSON payload in the
// "json" field.
func multipartBody(t *testing.T, payload any) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	jsonBytes, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("json", string(jsonBytes)))
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func withUser(req *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserClaimsKey, user)
	return req.WithContext(ctx)
}

func TestCreatePostHandler(t *testing.T) {
	user := domain.User{Id: 1}

	t.Run("successful request", func(t *testing.T) {
		mockService := &MockPostService{
			MockCreate: func(data domain.PostCreationData, uploads []*validation.PendingUpload) (domain.PostId, error) {
				assert.Equal(t, "hello", data.Title)
				assert.Equal(t, "world", data.Text)
				assert.Equal(t, user, data.Author)
				assert.Empty(t, uploads)
				return 42, nil
			},
		}
		router := setupPostTestHandler(mockService)

		body, contentType := multipartBody(t, map[string]string{"title": "hello", "text": "world"})
		req := httptest.NewRequest(http.MethodPost, "/posts", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, withUser(req, &user))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "42", rr.Body.String())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := setupPostTestHandler(&MockPostService{})

		body, contentType := multipartBody(t, map[string]string{"title": "hello", "text": "world"})
		req := httptest.NewRequest(http.MethodPost, "/posts", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing required field", func(t *testing.T) {
		router := setupPostTestHandler(&MockPostService{})

		body, contentType := multipartBody(t, map[string]string{"title": "hello"})
		req := httptest.NewRequest(http.MethodPost, "/posts", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, withUser(req, &user))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetPostHandler(t *testing.T) {
	t.Run("anonymous viewer keyed by remote address", func(t *testing.T) {
		var gotViewer domain.Viewer
		mockService := &MockPostService{
			MockGet: func(id domain.PostId, viewer domain.Viewer) (*domain.Post, error) {
				gotViewer = viewer
				return &domain.Post{Id: id, Title: "t"}, nil
			},
		}
		router := setupPostTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/posts/5", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ip-10.0.0.1", gotViewer.Key())
	})

	t.Run("authenticated viewer keyed by user id", func(t *testing.T) {
		var gotViewer domain.Viewer
		mockService := &MockPostService{
			MockGet: func(id domain.PostId, viewer domain.Viewer) (*domain.Post, error) {
				gotViewer = viewer
				return &domain.Post{Id: id}, nil
			},
		}
		router := setupPostTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/posts/5", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, withUser(req, &domain.User{Id: 77}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-77", gotViewer.Key())
	})

	t.Run("not found", func(t *testing.T) {
		mockService := &MockPostService{
			MockGet: func(id domain.PostId, viewer domain.Viewer) (*domain.Post, error) {
				return nil, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
			},
		}
		router := setupPostTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/posts/999", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		router := setupPostTestHandler(&MockPostService{})

		req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeletePostHandler(t *testing.T) {
	t.Run("forwards actor to the service", func(t *testing.T) {
		actor := domain.User{Id: 3, Admin: true}
		mockService := &MockPostService{
			MockDelete: func(id domain.PostId, got domain.User) error {
				assert.Equal(t, domain.PostId(5), id)
				assert.Equal(t, actor, got)
				return nil
			},
		}
		router := setupPostTestHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/posts/5", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, withUser(req, &actor))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("forbidden surfaces as 403", func(t *testing.T) {
		mockService := &MockPostService{
			MockDelete: func(id domain.PostId, actor domain.User) error {
				return &internal_errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}
			},
		}
		router := setupPostTestHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/posts/5", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, withUser(req, &domain.User{Id: 9}))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
