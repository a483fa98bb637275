package domain

import (
	"context"
	"errors"

	humanize "github.com/dustin/go-humanize"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	All(ctx context.Context) ([]Response, error)
	Find(ctx context.Context, id int64) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id int64) error
	Verified(ctx context.Context) ([]Response, error)
	Unverified(ctx context.Context) ([]Response, error)
	Admins(ctx context.Context) ([]Response, error)
	Statistics(ctx context.Context) (*Statistics, error)
	PromoteToAdmin(ctx context.Context, id int64) (*Response, error)
	DemoteToUser(ctx context.Context, id int64) (*Response, error)
}

type ListRequest struct {
	Search        string
	EmailVerified *bool
	Role          string
	SortBy        string
	SortOrder     string
	Page          pagination.Pagination
}

type ListResponse struct {
	Users    []Response          `json:"users"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type CreateRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateRequest merges by presence. Password is only rehashed when non-empty.
type UpdateRequest struct {
	Name     *string
	Email    *string
	Role     *string
	Password string
}

type Response struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	EmailVerified   bool   `json:"email_verified"`
	EmailVerifiedAt string `json:"email_verified_at,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	CreatedAtHuman  string `json:"created_at_human"`
}

type Statistics struct {
	TotalUsers      int64 `json:"total_users"`
	VerifiedUsers   int64 `json:"verified_users"`
	UnverifiedUsers int64 `json:"unverified_users"`
	RecentUsers     int64 `json:"recent_users"`
	AdminUsers      int64 `json:"admin_users"`
	RegularUsers    int64 `json:"regular_users"`
}

var (
	ErrNotFound    = errors.New("user_not_found")
	ErrEmailTaken  = errors.New("user_email_taken")
	ErrInvalidRole = errors.New("invalid_role")
)

func ToResponse(u *User) Response {
	resp := Response{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		EmailVerified:  u.EmailVerifiedAt != nil,
		CreatedAt:      u.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      u.UpdatedAt.Format("2006-01-02 15:04:05"),
		CreatedAtHuman: humanize.Time(u.CreatedAt),
	}
	if u.EmailVerifiedAt != nil {
		resp.EmailVerifiedAt = u.EmailVerifiedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

func ToResponses(items []User) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}
