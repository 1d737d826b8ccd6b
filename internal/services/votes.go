package services

import (
	"errors"

	"banyan/internal/db"
	"banyan/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrInvalidVote 投票动作不在 up/down/remove 之内
	ErrInvalidVote = errors.New("vote must be 'up', 'down', or 'remove'")
)

// errVoteRace 并发首投撞上唯一索引：另一次写入已经落库
var errVoteRace = errors.New("vote already recorded concurrently")

// VoteResult 投票动作的结果，ScoreDelta 是本次动作对 score 的净影响
type VoteResult struct {
	Vote       *string `json:"vote"` // up/down，移除后为 null
	ScoreDelta int     `json:"scoreDelta"`
}

// VoteDeltas 计算从上一个投票状态迁移到新动作所需的 (upΔ, downΔ)。
// previous 为空串表示此前未投票。up→down 一次迁移产生 (-1, +1)，
// 同一动作重复提交产生 (0, 0)，幂等。
func VoteDeltas(previous, decision string) (upDelta, downDelta int) {
	if previous == models.VoteUp {
		upDelta--
	}
	if previous == models.VoteDown {
		downDelta--
	}
	if decision == models.VoteUp {
		upDelta++
	}
	if decision == models.VoteDown {
		downDelta++
	}
	return upDelta, downDelta
}

// applyPostDelta 计数器维护：三个字段一条语句原子递增，score 按增量累加
// 而不是整值回写，避免对 score 本身的读改写竞争
func applyPostDelta(tx *gorm.DB, postID uint, upDelta, downDelta int) error {
	return tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumns(map[string]interface{}{
		"upvotes":   gorm.Expr("upvotes + ?", upDelta),
		"downvotes": gorm.Expr("downvotes + ?", downDelta),
		"score":     gorm.Expr("score + ?", upDelta-downDelta),
	}).Error
}

func applyCommentDelta(tx *gorm.DB, commentID uint, upDelta, downDelta int) error {
	return tx.Model(&models.Comment{}).Where("id = ?", commentID).UpdateColumns(map[string]interface{}{
		"upvotes":   gorm.Expr("upvotes + ?", upDelta),
		"downvotes": gorm.Expr("downvotes + ?", downDelta),
		"score":     gorm.Expr("score + ?", upDelta-downDelta),
	}).Error
}

// CastPostVote 处理用户对帖子的投票。
// 读已有记录 → 算增量 → 写记录 → 写计数器。读取没有加锁，
// 同一用户并发提交时由 (user_id, post_id) 唯一索引兜底：输掉竞争的一次
// 回滚后按已投票处理，票记录永远只有一条；计数器漂移由 Reconciler 纠正。
func CastPostVote(user *models.User, post *models.Post, decision string) (*VoteResult, error) {
	if !models.ValidVoteDecision(decision) {
		return nil, ErrInvalidVote
	}

	var upDelta, downDelta int

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		previous := ""
		err := tx.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&existing).Error
		if err == nil {
			previous = existing.VoteType
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		upDelta, downDelta = VoteDeltas(previous, decision)

		switch {
		case decision == models.VoteRemove:
			// 没有记录时移除是 no-op，增量为零
			if previous != "" {
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
			}
		case previous == "":
			vote := models.Vote{
				UserID:   user.ID,
				PostID:   &post.ID,
				VoteType: decision,
			}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errVoteRace
				}
				return err
			}
		case previous != decision:
			// 覆盖原记录，每个 (用户, 帖子) 始终只有一条
			if err := tx.Model(&existing).UpdateColumn("vote_type", decision).Error; err != nil {
				return err
			}
		}

		if upDelta != 0 || downDelta != 0 {
			return applyPostDelta(tx, post.ID, upDelta, downDelta)
		}
		return nil
	})
	if errors.Is(err, errVoteRace) {
		// 良性竞争：回读账本当前状态，本次不动计数器
		current, readErr := GetPostVote(user.ID, post.ID)
		if readErr != nil {
			return nil, readErr
		}
		result := &VoteResult{}
		if current != "" {
			result.Vote = &current
		}
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result := &VoteResult{ScoreDelta: upDelta - downDelta}
	if decision != models.VoteRemove {
		result.Vote = &decision
	}
	return result, nil
}

// CastCommentVote 处理用户对评论的投票，流程与帖子一致
func CastCommentVote(user *models.User, comment *models.Comment, decision string) (*VoteResult, error) {
	if !models.ValidVoteDecision(decision) {
		return nil, ErrInvalidVote
	}

	var upDelta, downDelta int

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		previous := ""
		err := tx.Where("user_id = ? AND comment_id = ?", user.ID, comment.ID).First(&existing).Error
		if err == nil {
			previous = existing.VoteType
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		upDelta, downDelta = VoteDeltas(previous, decision)

		switch {
		case decision == models.VoteRemove:
			if previous != "" {
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
			}
		case previous == "":
			vote := models.Vote{
				UserID:    user.ID,
				CommentID: &comment.ID,
				VoteType:  decision,
			}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errVoteRace
				}
				return err
			}
		case previous != decision:
			if err := tx.Model(&existing).UpdateColumn("vote_type", decision).Error; err != nil {
				return err
			}
		}

		if upDelta != 0 || downDelta != 0 {
			return applyCommentDelta(tx, comment.ID, upDelta, downDelta)
		}
		return nil
	})
	if errors.Is(err, errVoteRace) {
		current, readErr := GetCommentVote(user.ID, comment.ID)
		if readErr != nil {
			return nil, readErr
		}
		result := &VoteResult{}
		if current != "" {
			result.Vote = &current
		}
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result := &VoteResult{ScoreDelta: upDelta - downDelta}
	if decision != models.VoteRemove {
		result.Vote = &decision
	}
	return result, nil
}

// GetPostVote 查询用户当前对帖子的投票，未投返回空串
func GetPostVote(userID, postID uint) (string, error) {
	var vote models.Vote
	err := db.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return vote.VoteType, nil
}

// GetCommentVote 查询用户当前对评论的投票，未投返回空串
func GetCommentVote(userID, commentID uint) (string, error) {
	var vote models.Vote
	err := db.DB.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return vote.VoteType, nil
}
