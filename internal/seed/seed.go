package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeeplabs/storekeep/internal/auth/password"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail   = "admin@example.com"
	defaultAdminName    = "Admin User"
	defaultUserEmail    = "user@example.com"
	defaultUserName     = "Regular User"
	defaultSeedPassword = "password"
)

// EnsureDefaultUsers seeds a verified admin and a regular user for dev setups.
// Existing rows are left untouched, so the seed is safe to run repeatedly.
func EnsureDefaultUsers(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUserTx(ctx, tx, node, defaultAdminEmail, defaultAdminName, userdomain.RoleAdmin); err != nil {
			return err
		}
		return ensureUserTx(ctx, tx, node, defaultUserEmail, defaultUserName, userdomain.RoleUser)
	})
}

func ensureUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, email, name, role string) error {
	var existing userdomain.User
	err := tx.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(defaultSeedPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := userdomain.User{
		ID:              node.Generate().Int64(),
		Name:            name,
		Email:           email,
		Password:        hashed,
		Role:            role,
		EmailVerifiedAt: &now,
	}
	return tx.WithContext(ctx).Create(&user).Error
}
