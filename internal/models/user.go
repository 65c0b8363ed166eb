package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered reader
type User struct {
	ID          string    `gorm:"primaryKey;size:25" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"-"`
	Password    string    `gorm:"not null" json:"-"`
	AvatarURL   string    `json:"avatar_url"`
	Tier        string    `gorm:"not null;default:FREE" json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}
