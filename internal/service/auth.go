package service

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ermnvldmr/wboard/internal/authz"
	"github.com/ermnvldmr/wboard/internal/domain"
	internal_errors "github.com/ermnvldmr/wboard/internal/errors"
	"github.com/ermnvldmr/wboard/internal/logger"
)

type AuthService interface {
	Register(creds domain.Credentials) (domain.UserId, error)
	Login(creds domain.Credentials) (string, *domain.User, error)
	Me(userId domain.UserId) (*domain.User, error)
	List() ([]domain.User, error)
	EditName(userId domain.UserId, name string, actor domain.User) (*domain.User, error)
	Delete(userId domain.UserId, actor domain.User) error
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	CreateUser(email domain.Email, passHash string) (domain.UserId, error)
	GetUser(id domain.UserId) (*domain.User, error)
	GetUserByEmail(email domain.Email) (*domain.User, error)
	GetUsers() ([]domain.User, error)
	UpdateUserName(id domain.UserId, name string) (*domain.User, error)
	DeleteUser(id domain.UserId) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

func (a *Auth) Register(creds domain.Credentials) (domain.UserId, error) {
	email := strings.ToLower(creds.Email)

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return 0, err
	}

	id, err := a.storage.CreateUser(email, string(passHash))
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (a *Auth) Login(creds domain.Credentials) (string, *domain.User, error) {
	email := strings.ToLower(creds.Email)

	user, err := a.storage.GetUserByEmail(email)
	if err != nil {
		// Don't leak whether the email exists
		return "", nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}

	token, err := a.jwt.NewToken(*user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Me returns the profile behind an authenticated user's token.
func (a *Auth) Me(userId domain.UserId) (*domain.User, error) {
	return a.storage.GetUser(userId)
}

func (a *Auth) List() ([]domain.User, error) {
	return a.storage.GetUsers()
}

// EditName changes a user's display name. Same owner-or-admin rule as
// deletion.
func (a *Auth) EditName(userId domain.UserId, name string, actor domain.User) (*domain.User, error) {
	if !authz.CanDelete(actor.Id, actor.Admin, userId) {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}
	}
	return a.storage.UpdateUserName(userId, name)
}

func (a *Auth) Delete(userId domain.UserId, actor domain.User) error {
	if !authz.CanDelete(actor.Id, actor.Admin, userId) {
		return &internal_errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}
	}
	return a.storage.DeleteUser(userId)
}
