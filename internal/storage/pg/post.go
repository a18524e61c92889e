package pg

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

const postColumns = `
	p.id, p.title, p.text, p.media, p.views, p.created_at,
	u.id, u.email, u.name, u.is_admin,
	COALESCE((SELECT SUM(v.value) FROM votes v WHERE v.post_id = p.id), 0) AS score`

func (s *Storage) CreatePost(data domain.PostCreationData) (domain.PostId, error) {
	var id domain.PostId
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway round to microsecond
	err := s.db.QueryRow(`
	INSERT INTO posts(title, text, author_id, media, created_at)
	VALUES($1, $2, $3, $4, $5)
	RETURNING id`, data.Title, data.Text, data.Author.Id, data.Media, createdTs).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Storage) GetPost(id domain.PostId) (*domain.Post, error) {
	row := s.db.QueryRow(`
	SELECT `+postColumns+`
	FROM posts p
	JOIN users u ON p.author_id = u.id
	WHERE p.id = $1`, id)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	return post, nil
}

func (s *Storage) GetPosts() ([]domain.Post, error) {
	return s.queryPosts(`
	SELECT `+postColumns+`
	FROM posts p
	JOIN users u ON p.author_id = u.id
	ORDER BY p.created_at DESC`)
}

func (s *Storage) GetPostsByUser(userId domain.UserId) ([]domain.Post, error) {
	return s.queryPosts(`
	SELECT `+postColumns+`
	FROM posts p
	JOIN users u ON p.author_id = u.id
	WHERE p.author_id = $1
	ORDER BY p.created_at DESC`, userId)
}

func (s *Storage) DeletePost(id domain.PostId) error {
	result, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// IncrementPostViews bumps the view counter. Called only when the view
// cache admitted the view.
func (s *Storage) IncrementPostViews(id domain.PostId) error {
	result, err := s.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var post domain.Post
	var media domain.Media
	err := row.Scan(&post.Id, &post.Title, &post.Text, &media, &post.Views, &post.CreatedAt,
		&post.Author.Id, &post.Author.Email, &post.Author.Name, &post.Author.Admin, &post.Score)
	if err != nil {
		return nil, err
	}
	if len(media) > 0 {
		post.Media = &media
	}
	return &post, nil
}

func (s *Storage) queryPosts(query string, args ...any) ([]domain.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}
