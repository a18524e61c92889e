package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/ermnvldmr/wboard/internal/domain"
)

var secretKey = "testJwtKey"
var user = domain.User{Id: 1, Email: "test@mail.ru", Admin: true}

func TestDecodeTokenCorrect(t *testing.T) {
	j := New(secretKey, 10*time.Second)
	token, err := j.NewToken(user)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := j.DecodeToken(token)
	if err != nil {
		t.Fatal(err)
	}
	claims, ok := decoded.Claims.(jwtlib.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	if uid := claims["uid"].(float64); uid != 1 {
		t.Errorf("uid = %v, want 1", uid)
	}
	if admin := claims["admin"].(bool); !admin {
		t.Errorf("admin = %v, want true", admin)
	}
}

func TestDecodeTokenExpired(t *testing.T) {
	j := New(secretKey, -time.Second)
	token, err := j.NewToken(user)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = j.DecodeToken(token); err == nil {
		t.Error("We shouldn't decode expired token")
	}
}

func TestDecodeTokenInvalidSecretKey(t *testing.T) {
	token, err := New(secretKey, 10*time.Second).NewToken(user)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = New("invalidSecret", 10*time.Second).DecodeToken(token); err == nil {
		t.Error("We shouldn't decode token with invalid secret")
	}
}
