package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:255" json:"name"`
	Email           string     `gorm:"uniqueIndex;size:255" json:"email"`
	Password        string     `gorm:"size:255" json:"-"`
	Role            string     `gorm:"size:32;default:user" json:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
