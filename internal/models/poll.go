package models

import (
	"time"
)

const (
	PollStatusActive = "active"
	PollStatusClosed = "closed"
)

type Poll struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PollID        string    `gorm:"uniqueIndex;size:36;not null" json:"poll_id"`
	CommunityID   uint      `gorm:"not null;index" json:"community_id"`
	Community     Community `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"community"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Question      string    `gorm:"not null" json:"question"`
	AllowMultiple bool      `gorm:"default:false" json:"allow_multiple"`
	TotalVotes    int       `gorm:"default:0" json:"total_votes"`
	Status        string    `gorm:"size:20;default:'active';not null" json:"status"`
	ExpiresAt     time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PollOption 选项票数是缓存，真实来源是 poll_votes 中当前选择该选项的去重用户数
type PollOption struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PollID   uint   `gorm:"not null;index;uniqueIndex:idx_poll_option" json:"poll_id"`
	OptionID string `gorm:"size:10;not null;uniqueIndex:idx_poll_option" json:"option_id"` // opt_1, opt_2, ...
	Text     string `gorm:"not null" json:"text"`
	Votes    int    `gorm:"default:0" json:"votes"`
}

// PollVote 每个用户对每个选项至多一条，重新投票整体替换该用户之前的所有选择
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;index;uniqueIndex:idx_poll_voter_option" json:"poll_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_poll_voter_option" json:"user_id"`
	OptionID  string    `gorm:"size:10;not null;uniqueIndex:idx_poll_voter_option" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}
