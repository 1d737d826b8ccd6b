package services

import (
	"errors"
	"fmt"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrPollOptions 选项不足
	ErrPollOptions = errors.New("poll requires at least 2 options")
	// ErrPollExpired 投票期已结束
	ErrPollExpired = errors.New("poll has expired")
	// ErrPollSingleChoice 单选投票只允许一个选项
	ErrPollSingleChoice = errors.New("poll does not allow multiple selections")
	// ErrPollOptionUnknown 选项 id 不存在
	ErrPollOptionUnknown = errors.New("invalid option")
	// ErrPollNoSelection 没有选任何选项
	ErrPollNoSelection = errors.New("at least one option is required")
)

// CreatePoll 创建投票帖，选项按传入顺序编号 opt_1..opt_n。
// 不传过期时间默认 7 天
func CreatePoll(communityID, userID uint, question string, options []string, allowMultiple bool, expiresAt *time.Time) (*models.Poll, error) {
	if len(options) < 2 {
		return nil, ErrPollOptions
	}

	expiry := time.Now().Add(7 * 24 * time.Hour)
	if expiresAt != nil {
		expiry = *expiresAt
	}

	poll := models.Poll{
		PollID:        uuid.New().String(),
		CommunityID:   communityID,
		UserID:        userID,
		Question:      question,
		AllowMultiple: allowMultiple,
		Status:        models.PollStatusActive,
		ExpiresAt:     expiry,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}
		for i, text := range options {
			opt := models.PollOption{
				PollID:   poll.ID,
				OptionID: fmt.Sprintf("opt_%d", i+1),
				Text:     text,
			}
			if err := tx.Create(&opt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// CastPollVote 给投票帖投票。重复投票是整体替换：
// 先删掉该用户之前的全部选择，再写入新选择，选项票数重算。
// 所以每个选项的票数始终等于当前选了它的独立用户数
func CastPollVote(poll *models.Poll, userID uint, optionIDs []string, now time.Time) error {
	if len(optionIDs) == 0 {
		return ErrPollNoSelection
	}
	if now.After(poll.ExpiresAt) {
		return ErrPollExpired
	}
	if !poll.AllowMultiple && len(optionIDs) > 1 {
		return ErrPollSingleChoice
	}

	var options []models.PollOption
	if err := db.DB.Where("poll_id = ?", poll.ID).Find(&options).Error; err != nil {
		return err
	}
	valid := make(map[string]bool, len(options))
	for i := range options {
		valid[options[i].OptionID] = true
	}
	// 去重并校验
	seen := make(map[string]bool, len(optionIDs))
	selections := make([]string, 0, len(optionIDs))
	for _, id := range optionIDs {
		if !valid[id] {
			return ErrPollOptionUnknown
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		selections = append(selections, id)
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ? AND user_id = ?", poll.ID, userID).
			Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		for _, optionID := range selections {
			vote := models.PollVote{
				PollID:   poll.ID,
				UserID:   userID,
				OptionID: optionID,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		}
		return recountPoll(tx, poll.ID)
	})
}

// recountPoll 从选择记录重算各选项票数和总投票人数
func recountPoll(tx *gorm.DB, pollID uint) error {
	var options []models.PollOption
	if err := tx.Where("poll_id = ?", pollID).Find(&options).Error; err != nil {
		return err
	}
	for i := range options {
		var count int64
		if err := tx.Model(&models.PollVote{}).
			Where("poll_id = ? AND option_id = ?", pollID, options[i].OptionID).
			Count(&count).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PollOption{}).
			Where("id = ?", options[i].ID).
			UpdateColumn("votes", int(count)).Error; err != nil {
			return err
		}
	}
	var voters int64
	if err := tx.Model(&models.PollVote{}).
		Where("poll_id = ?", pollID).
		Distinct("user_id").Count(&voters).Error; err != nil {
		return err
	}
	return tx.Model(&models.Poll{}).
		Where("id = ?", pollID).
		UpdateColumn("total_votes", int(voters)).Error
}

// PollOptionResult 单个选项的结果
type PollOptionResult struct {
	OptionID   string  `json:"optionId"`
	Text       string  `json:"text"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// PollResults 汇总投票结果，按选项编号顺序返回，百分比以投票人数为分母
func PollResults(poll *models.Poll) ([]PollOptionResult, error) {
	var options []models.PollOption
	if err := db.DB.Where("poll_id = ?", poll.ID).Order("id asc").Find(&options).Error; err != nil {
		return nil, err
	}

	results := make([]PollOptionResult, 0, len(options))
	for i := range options {
		pct := 0.0
		if poll.TotalVotes > 0 {
			pct = float64(options[i].Votes) / float64(poll.TotalVotes) * 100
		}
		results = append(results, PollOptionResult{
			OptionID:   options[i].OptionID,
			Text:       options[i].Text,
			Votes:      options[i].Votes,
			Percentage: pct,
		})
	}
	return results, nil
}
