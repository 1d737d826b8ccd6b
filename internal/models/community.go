package models

import (
	"time"
)

type Community struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;unique" json:"name"`
	Description string    `json:"description"`
	CreatorID   *uint     `gorm:"index" json:"creator_id"`
	PostCount   int       `gorm:"default:0" json:"post_count"` // 原子递增，发帖时 +1
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
