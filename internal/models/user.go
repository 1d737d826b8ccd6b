package models

import (
	"time"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"uniqueIndex;size:40;not null" json:"username"`
	DisplayName string `gorm:"size:80" json:"display_name"`
	Avatar      string `json:"avatar"`
	Bio         string `gorm:"size:200" json:"bio"` // 个人简介

	// 累计计数器，由投票/发帖/成就链路维护
	Karma        int `gorm:"default:0" json:"karma"`
	PostKarma    int `gorm:"default:0" json:"post_karma"`
	CommentKarma int `gorm:"default:0" json:"comment_karma"`
	PostCount    int `gorm:"default:0" json:"post_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`
	AwardCount   int `gorm:"default:0" json:"award_count"`

	// 连续活跃天数，日期按 YYYY-MM-DD 存储（日历日比较，不含时分秒）
	CurrentStreak  int    `gorm:"default:0" json:"current_streak"`
	LongestStreak  int    `gorm:"default:0" json:"longest_streak"`
	LastActiveDate string `gorm:"size:10" json:"last_active_date"`

	Status    string    `gorm:"size:20;default:'active';not null" json:"status"` // active, suspended
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// No DeletedAt: accounts are never physically removed
}
