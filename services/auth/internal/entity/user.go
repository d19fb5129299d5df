package entity

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	Nickname       string    `json:"nickname,omitempty"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Occupation     string    `json:"occupation,omitempty"`
	Location       string    `json:"location,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	FavoriteGenres []string  `json:"favorite_genres"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TokenPair is what every successful authentication returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged" so partial updates don't clobber existing values.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	Nickname       *string
	PhoneNumber    *string
	Occupation     *string
	Location       *string
	Bio            *string
	FavoriteGenres *[]string
}
