package models

import (
	"time"
)

type Comment struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	CommentID string   `gorm:"uniqueIndex;size:36;not null" json:"comment_id"` // 对外公开的 UUID
	PostID    uint     `gorm:"not null;index" json:"post_id"`
	Post      Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	UserID    uint     `gorm:"not null;index" json:"user_id"`
	User      User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID  *uint    `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent    *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"parent"`
	Body      string   `gorm:"type:text;not null" json:"body"`

	// 嵌套层级，创建时根据父评论确定：depth = parent.depth + 1
	// path = parent.path + "/" + id，根评论 depth=0、path 就是自己的内部 id
	Depth int    `gorm:"default:0" json:"depth"`
	Path  string `gorm:"type:text" json:"path"`

	Upvotes    int `gorm:"default:0" json:"upvotes"`
	Downvotes  int `gorm:"default:0" json:"downvotes"`
	Score      int `gorm:"default:0" json:"score"` // 不变量: Score == Upvotes - Downvotes
	ReplyCount int `gorm:"default:0" json:"reply_count"`

	Edited    bool      `gorm:"default:false" json:"edited"`
	Status    string    `gorm:"size:20;default:'active';not null;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
