package pg

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
)

func (s *Storage) CreateUser(email domain.Email, passHash string) (domain.UserId, error) {
	var id domain.UserId
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway round to microsecond
	err := s.db.QueryRow(`
	INSERT INTO users(email, pass_hash, created_at)
	VALUES($1, $2, $3)
	RETURNING id`, email, passHash, createdTs).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusConflict}
		}
		return 0, err
	}
	return id, nil
}

func (s *Storage) GetUser(id domain.UserId) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(`
	SELECT id, email, name, pass_hash, is_admin, created_at
	FROM users
	WHERE id = $1`, id).Scan(&user.Id, &user.Email, &user.Name, &user.PassHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(email domain.Email) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(`
	SELECT id, email, name, pass_hash, is_admin, created_at
	FROM users
	WHERE email = $1`, email).Scan(&user.Id, &user.Email, &user.Name, &user.PassHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers lists all registered users. Password hashes are not loaded.
func (s *Storage) GetUsers() ([]domain.User, error) {
	rows, err := s.db.Query(`
	SELECT id, email, name, is_admin, created_at
	FROM users
	ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Id, &user.Email, &user.Name, &user.Admin, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUserName sets a user's display name and returns the updated user.
func (s *Storage) UpdateUserName(id domain.UserId, name string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(`
	UPDATE users SET name = $2
	WHERE id = $1
	RETURNING id, email, name, is_admin, created_at`, id, name).
		Scan(&user.Id, &user.Email, &user.Name, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) DeleteUser(id domain.UserId) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return nil
}
