package models

import (
	"time"
)

// 投票动作。remove 不落库，表示删除已有投票记录
const (
	VoteUp     = "up"
	VoteDown   = "down"
	VoteRemove = "remove"
)

// ValidVoteDecision 校验请求中的投票动作
func ValidVoteDecision(v string) bool {
	return v == VoteUp || v == VoteDown || v == VoteRemove
}

// Vote 是每个 (用户, 内容) 对的唯一投票记录，聚合计数器的真实来源。
// 没有记录即 "未投票"，切换立场直接覆盖 VoteType，不存 null 状态。
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_post;uniqueIndex:idx_vote_user_comment" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_vote_user_post" json:"post_id"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_vote_user_comment" json:"comment_id"`
	VoteType  string    `gorm:"size:4;not null" json:"vote_type"` // up or down
	CreatedAt time.Time `json:"created_at"`
}

// (user_id, post_id) 和 (user_id, comment_id) 各有一个复合唯一索引。
// NULL 列互不冲突，所以帖子票和评论票落在同一张表里也不会互相挡路，
// 并发首投撞索引时由投票服务按良性竞争处理。
