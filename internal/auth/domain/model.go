package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type AuthToken struct {
	ID         int64      `gorm:"primaryKey"`
	UserID     int64      `gorm:"index"`
	TokenHash  string     `gorm:"uniqueIndex;size:64"`
	Name       string     `gorm:"size:255"`
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

func (AuthToken) TableName() string { return "auth_tokens" }

// NewPlainToken returns a fresh random bearer token. Only its hash is stored.
func NewPlainToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken derives the at-rest form of a bearer token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
