package domain

import "time"

type Credentials struct {
	Email    Email
	Password Password
}

type User struct {
	Id        UserId    `json:"id"`
	Email     Email     `json:"email"`
	Name      string    `json:"name"`
	PassHash  string    `json:"-"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}
