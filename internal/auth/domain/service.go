package domain

import (
	"context"
	"errors"

	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	Logout(ctx context.Context, plainToken string) error
	// Authenticate resolves a bearer token to its user, touching last_used_at.
	Authenticate(ctx context.Context, plainToken string) (*userdomain.User, error)
	// RevokeUserTokens invalidates every session a user holds.
	RevokeUserTokens(ctx context.Context, userID int64) error
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
}

type Session struct {
	Token string              `json:"token"`
	User  userdomain.Response `json:"user"`
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
