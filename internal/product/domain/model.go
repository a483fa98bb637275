package domain

import "time"

type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:255" json:"name"`
	Description *string   `gorm:"size:1000" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2)" json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }
