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
	StartTime   time.Time
	EndTime     time.Time
	Type        string
	Status      string
}

type UpdateRequest struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Type        *string
	Status      *string
}

type OwnerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Response struct {
	ID             int64        `json:"id"`
	Title          string       `json:"title"`
	Description    *string      `json:"description"`
	Start          time.Time    `json:"start"`
	End            time.Time    `json:"end"`
	StartFormatted string       `json:"start_formatted"`
	EndFormatted   string       `json:"end_formatted"`
	Type           string       `json:"type"`
	Status         string       `json:"status"`
	User           OwnerSummary `json:"user"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

var (
	ErrNotFound  = errors.New("schedule_not_found")
	ErrForbidden = errors.New("schedule_forbidden")
	ErrTimeOrder = errors.New("schedule_end_before_start")
)

func ToResponse(s *Schedule, owner OwnerSummary) Response {
	return Response{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		Start:          s.StartTime,
		End:            s.EndTime,
		StartFormatted: s.StartTime.Format("2006-01-02 15:04:05"),
		EndFormatted:   s.EndTime.Format("2006-01-02 15:04:05"),
		Type:           s.Type,
		Status:         s.Status,
		User:           owner,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
