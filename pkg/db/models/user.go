package models

import (
	"time"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// User is a back-office account. PasswordHash is an Argon2id encoded
// string; Role gates what the account can mutate.
type User struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string           `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	FullName     string           `gorm:"column:full_name;not null"`
	Role         enums.MemberRole `gorm:"column:role;not null"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
