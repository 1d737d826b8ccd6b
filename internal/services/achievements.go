package services

import (
	"errors"
	"strings"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUnknownBadge badgeId 不在目录里
	ErrUnknownBadge = errors.New("invalid badgeId")
)

// Badges 徽章静态目录
var Badges = map[string]models.Badge{
	"first_post":        {ID: "first_post", Name: "First Post", Description: "Created your first post", Icon: "✍️", Rarity: "common"},
	"first_comment":     {ID: "first_comment", Name: "Conversationalist", Description: "Made your first comment", Icon: "💬", Rarity: "common"},
	"karma_100":         {ID: "karma_100", Name: "Rising Star", Description: "Earned 100 karma", Icon: "⭐", Rarity: "common"},
	"karma_1000":        {ID: "karma_1000", Name: "Influencer", Description: "Earned 1,000 karma", Icon: "🌟", Rarity: "rare"},
	"karma_10000":       {ID: "karma_10000", Name: "Legend", Description: "Earned 10,000 karma", Icon: "👑", Rarity: "epic"},
	"streak_7":          {ID: "streak_7", Name: "Week Warrior", Description: "7-day streak", Icon: "🔥", Rarity: "rare"},
	"streak_30":         {ID: "streak_30", Name: "Monthly Master", Description: "30-day streak", Icon: "💎", Rarity: "epic"},
	"streak_365":        {ID: "streak_365", Name: "Year Veteran", Description: "365-day streak", Icon: "🏆", Rarity: "legendary"},
	"community_founder": {ID: "community_founder", Name: "Founder", Description: "Created a community", Icon: "🏗️", Rarity: "rare"},
	"early_adopter":     {ID: "early_adopter", Name: "Early Adopter", Description: "Joined in first month", Icon: "🎯", Rarity: "legendary"},
}

// karma 徽章阈值，升序
var karmaBadgeThresholds = []struct {
	Threshold int
	BadgeID   string
}{
	{100, "karma_100"},
	{1000, "karma_1000"},
	{10000, "karma_10000"},
}

// streak 徽章阈值，升序
var streakBadgeThresholds = []struct {
	Threshold int
	BadgeID   string
}{
	{7, "streak_7"},
	{30, "streak_30"},
	{365, "streak_365"},
}

// AwardBadge 给用户授予徽章。重复授予静默跳过（返回 awarded=false），
// 依赖 (user_id, badge_id) 唯一索引 + on conflict do nothing，并发下也不会出重复记录
func AwardBadge(userID uint, badgeID string, autoAwarded bool) (awarded bool, err error) {
	badgeID = strings.ToLower(badgeID)
	if _, ok := Badges[badgeID]; !ok {
		return false, ErrUnknownBadge
	}

	award := models.BadgeAward{
		UserID:      userID,
		BadgeID:     badgeID,
		AutoAwarded: autoAwarded,
	}

	res := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&award)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// 已持有该徽章
		return false, nil
	}

	// 授予成功才递增徽章计数
	err = db.DB.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("award_count", gorm.Expr("award_count + ?", 1)).
		Error
	return true, err
}

// StreakResult recordActivity 的结果
type StreakResult struct {
	CurrentStreak   int  `json:"currentStreak"`
	LongestStreak   int  `json:"longestStreak"`
	StreakIncreased bool `json:"streakIncreased"`
	AlreadyActive   bool `json:"-"` // 当天已记录过
}

// RecordActivity 按日历日维护连续活跃天数。
// 同一天重复调用不变；隔一天 +1；断档或首次置 1。
// 跨过 7/30/365 阈值时授予对应徽章，只在越界的那一次授予
func RecordActivity(user *models.User, now time.Time) (*StreakResult, error) {
	today := now.Format("2006-01-02")
	prevStreak := user.CurrentStreak

	newStreak := prevStreak
	if user.LastActiveDate == "" {
		// 首次活跃
		newStreak = 1
	} else {
		lastDate, err := time.Parse("2006-01-02", user.LastActiveDate)
		if err != nil {
			newStreak = 1
		} else {
			nowDate, _ := time.Parse("2006-01-02", today)
			diffDays := int(nowDate.Sub(lastDate).Hours() / 24)

			switch {
			case diffDays == 0:
				// 当天已记录，原样返回
				return &StreakResult{
					CurrentStreak: prevStreak,
					LongestStreak: user.LongestStreak,
					AlreadyActive: true,
				}, nil
			case diffDays == 1:
				// 连续活跃
				newStreak = prevStreak + 1
			default:
				// 断档重置
				newStreak = 1
			}
		}
	}

	newLongest := user.LongestStreak
	if newStreak > newLongest {
		newLongest = newStreak
	}

	err := db.DB.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumns(map[string]interface{}{
		"current_streak":   newStreak,
		"longest_streak":   newLongest,
		"last_active_date": today,
	}).Error
	if err != nil {
		return nil, err
	}
	user.CurrentStreak = newStreak
	user.LongestStreak = newLongest
	user.LastActiveDate = today

	// 越界检查：新值过阈值且旧值未过才授予
	for _, sb := range streakBadgeThresholds {
		if newStreak >= sb.Threshold && prevStreak < sb.Threshold {
			if _, err := AwardBadge(user.ID, sb.BadgeID, true); err != nil {
				return nil, err
			}
		}
	}

	return &StreakResult{
		CurrentStreak:   newStreak,
		LongestStreak:   newLongest,
		StreakIncreased: newStreak > prevStreak,
	}, nil
}

// CheckKarmaBadges 检查并补发 karma 阈值徽章，返回本次新授予的徽章。
// karma 可能一次跳过多个阈值，所以用存在性检查而不是越界检查
func CheckKarmaBadges(userID uint) ([]models.Badge, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var awarded []models.Badge
	for _, kb := range karmaBadgeThresholds {
		if user.Karma < kb.Threshold {
			continue
		}
		ok, err := AwardBadge(userID, kb.BadgeID, true)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, Badges[kb.BadgeID])
		}
	}
	return awarded, nil
}
