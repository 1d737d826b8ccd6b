package models

import (
	"time"
)

// 内容状态。hidden/removed/deleted 为终态，不参与列表和投票
const (
	ContentStatusActive  = "active"
	ContentStatusHidden  = "hidden"
	ContentStatusRemoved = "removed"
	ContentStatusDeleted = "deleted"
)

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      string    `gorm:"uniqueIndex;size:36;not null" json:"post_id"` // 对外公开的 UUID
	CommunityID uint      `gorm:"not null;index" json:"community_id"`
	Community   Community `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"community"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title       string    `gorm:"not null" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`

	// 聚合计数器缓存，真实来源是 votes 表（见 services.Reconciler）
	// 不变量: Score == Upvotes - Downvotes
	Upvotes   int `gorm:"default:0" json:"upvotes"`
	Downvotes int `gorm:"default:0" json:"downvotes"`
	Score     int `gorm:"default:0" json:"score"`

	CommentCount int `gorm:"default:0" json:"comment_count"`
	ViewCount    int `gorm:"default:0" json:"view_count"`

	Status    string    `gorm:"size:20;default:'active';not null;index" json:"status"`
	CreatedAt time.Time `json:"created_at"` // 不可变，排序公式的时间基准
	UpdatedAt time.Time `json:"updated_at"`
}
