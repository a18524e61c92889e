package pg

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

const discussionColumns = `
	d.id, d.post_id, d.parent_id, d.text, d.created_at,
	u.id, u.email, u.name, u.is_admin`

func (s *Storage) CreateDiscussion(data domain.DiscussionCreationData) (domain.DiscussionId, error) {
	var id domain.DiscussionId
	var parent sql.NullInt64
	if data.ParentId != nil {
		parent = sql.NullInt64{Int64: *data.ParentId, Valid: true}
	}
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway round to microsecond
	err := s.db.QueryRow(`
	INSERT INTO discussions(post_id, author_id, parent_id, text, created_at)
	VALUES($1, $2, $3, $4, $5)
	RETURNING id`, data.PostId, data.Author.Id, parent, data.Text, createdTs).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Storage) GetDiscussion(id domain.DiscussionId) (*domain.Discussion, error) {
	row := s.db.QueryRow(`
	SELECT `+discussionColumns+`
	FROM discussions d
	JOIN users u ON d.author_id = u.id
	WHERE d.id = $1`, id)

	d, err := scanDiscussion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Discussion not found", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	return d, nil
}

// GetDiscussionsByPost returns a post's discussions in creation order, so
// clients can rebuild the tree top-down.
func (s *Storage) GetDiscussionsByPost(postId domain.PostId) ([]domain.Discussion, error) {
	return s.queryDiscussions(`
	SELECT `+discussionColumns+`
	FROM discussions d
	JOIN users u ON d.author_id = u.id
	WHERE d.post_id = $1
	ORDER BY d.created_at ASC`, postId)
}

func (s *Storage) GetDiscussionsByUser(userId domain.UserId) ([]domain.Discussion, error) {
	return s.queryDiscussions(`
	SELECT `+discussionColumns+`
	FROM discussions d
	JOIN users u ON d.author_id = u.id
	WHERE d.author_id = $1
	ORDER BY d.created_at ASC`, userId)
}

func (s *Storage) DeleteDiscussion(id domain.DiscussionId) error {
	result, err := s.db.Exec(`DELETE FROM discussions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Discussion not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func scanDiscussion(row rowScanner) (*domain.Discussion, error) {
	var d domain.Discussion
	err := row.Scan(&d.Id, &d.PostId, &d.ParentId, &d.Text, &d.CreatedAt,
		&d.Author.Id, &d.Author.Email, &d.Author.Name, &d.Author.Admin)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Storage) queryDiscussions(query string, args ...any) ([]domain.Discussion, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discussions []domain.Discussion
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			return nil, err
		}
		discussions = append(discussions, *d)
	}
	return discussions, rows.Err()
}
