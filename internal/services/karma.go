package services

import (
	"banyan/internal/db"
	"banyan/internal/models"

	"gorm.io/gorm"
)

// karma 来源分类
const (
	KarmaKindPost    = "post"
	KarmaKindComment = "comment"
)

// karma 动作常量
const (
	ActionPostVoted    = "post voted"
	ActionCommentVoted = "comment voted"
	ActionAdjustment   = "manual adjustment"
)

// AddKarma 使用事务添加 karma 并记录明细。
// 传入用户ID、变动值（正数增加，负数扣除）、来源分类和动作描述。
// 总量和分类计数在一条语句里原子递增
func AddKarma(userID uint, amount int, kind, action string) error {
	if amount == 0 {
		return nil
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 创建 karma 明细记录
		entry := models.KarmaLog{
			UserID: userID,
			Amount: amount,
			Kind:   kind,
			Action: action,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// 2. 更新用户 karma 余额
		values := map[string]interface{}{
			"karma": gorm.Expr("karma + ?", amount),
		}
		if kind == KarmaKindComment {
			values["comment_karma"] = gorm.Expr("comment_karma + ?", amount)
		} else {
			values["post_karma"] = gorm.Expr("post_karma + ?", amount)
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumns(values).
			Error
	})
}

// AddKarmaVoteAsync 投票链路的异步 karma 结算：给作者记分后顺带检查 karma 徽章。
// karma 增量可能一步跨过阈值，所以徽章检查靠存在性判断而不是越界判断
func AddKarmaVoteAsync(userID uint, amount int, kind, action string) {
	go func() {
		if err := AddKarma(userID, amount, kind, action); err != nil {
			return
		}
		_, _ = CheckKarmaBadges(userID)
	}()
}
