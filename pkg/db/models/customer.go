package models

import "time"

// Customer is a storefront shopper referenced by orders and targeted
// notifications. The back office reads customers but never creates them.
type Customer struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Phone     string    `gorm:"column:phone"`
	FCMToken  *string   `gorm:"column:fcm_token"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
