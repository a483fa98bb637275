package domain

import "time"

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Schedule struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index" json:"user_id"`
	Title       string    `gorm:"size:255" json:"title"`
	Description *string   `gorm:"size:1000" json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Type        string    `gorm:"size:64" json:"type"`
	Status      string    `gorm:"size:32;default:scheduled" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Schedule) TableName() string { return "schedules" }
