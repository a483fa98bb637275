package domain

import "time"

type Task struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index" json:"user_id"`
	Title       string    `gorm:"size:255" json:"title"`
	Description *string   `gorm:"size:1000" json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }
