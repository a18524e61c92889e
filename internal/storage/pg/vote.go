package pg

import (
	"errors"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

// UpsertVote casts or changes a user's vote on a post. One row per
// (post, user) pair, overwritten on conflict.
func (s *Storage) UpsertVote(postId domain.PostId, userId domain.UserId, value int) error {
	createdTs := time.Now().UTC().Round(time.Microsecond)
	_, err := s.db.Exec(`
	INSERT INTO votes(post_id, user_id, value, created_at)
	VALUES($1, $2, $3, $4)
	ON CONFLICT (post_id, user_id) DO UPDATE SET value = EXCLUDED.value`,
		postId, userId, value, createdTs)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}
		}
		return err
	}
	return nil
}

func (s *Storage) DeleteVote(postId domain.PostId, userId domain.UserId) error {
	result, err := s.db.Exec(`DELETE FROM votes WHERE post_id = $1 AND user_id = $2`, postId, userId)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Vote not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// GetPostScore sums a post's votes.
func (s *Storage) GetPostScore(postId domain.PostId) (int64, error) {
	var score int64
	err := s.db.QueryRow(`
	SELECT COALESCE(SUM(value), 0) FROM votes WHERE post_id = $1`, postId).Scan(&score)
	if err != nil {
		return 0, err
	}
	return score, nil
}
