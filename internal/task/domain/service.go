package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context, userID int64) ([]Response, error)
	Find(ctx context.Context, userID, id int64) (*Response, error)
	Create(ctx context.Context, userID int64, req CreateRequest) (*Response, error)
	Update(ctx context.Context, userID, id int64, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, userID, id int64) error
}

type CreateRequest struct {
	Title       string
	Description *string
}

type UpdateRequest struct {
	Title       *string
	Description *string
	Completed   *bool
}

type Response struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrNotFound  = errors.New("task_not_found")
	ErrForbidden = errors.New("task_forbidden")
)

func ToResponse(t *Task) Response {
	return Response{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
