package models

import (
	"time"
)

// Badge 徽章定义（静态目录，见 services 的 Badges 表）
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"` // common, rare, epic, legendary
}

// BadgeAward 用户获得的徽章，(user_id, badge_id) 唯一，重复授予是冲突而不是第二条记录
type BadgeAward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	BadgeID     string    `gorm:"size:40;not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	AutoAwarded bool      `gorm:"default:false" json:"auto_awarded"`
	CreatedAt   time.Time `json:"created_at"`
}
