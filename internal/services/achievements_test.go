package services

import (
	"testing"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"
)

func TestAwardBadgeIdempotent(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	awarded, err := AwardBadge(user.ID, "first_post", true)
	if err != nil {
		t.Fatalf("AwardBadge failed: %v", err)
	}
	if !awarded {
		t.Error("Expected first award to succeed")
	}

	// 重复授予静默跳过
	awarded, err = AwardBadge(user.ID, "first_post", true)
	if err != nil {
		t.Fatalf("AwardBadge failed: %v", err)
	}
	if awarded {
		t.Error("Expected repeat award to be skipped")
	}

	var count int64
	db.DB.Model(&models.BadgeAward{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 award record, got %d", count)
	}

	// award_count 只加了一次
	var got models.User
	db.DB.First(&got, user.ID)
	if got.AwardCount != 1 {
		t.Errorf("Expected award_count 1, got %d", got.AwardCount)
	}
}

func TestAwardBadgeUnknown(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	if _, err := AwardBadge(user.ID, "no_such_badge", false); err != ErrUnknownBadge {
		t.Errorf("Expected ErrUnknownBadge, got %v", err)
	}
}

func TestRecordActivityStreak(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// 首次活跃
	result, err := RecordActivity(user, day1)
	if err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	if result.CurrentStreak != 1 || !result.StreakIncreased {
		t.Errorf("Expected streak 1 increased, got %d", result.CurrentStreak)
	}

	// 同一天再来一次，不变
	result, err = RecordActivity(user, day1.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	if result.CurrentStreak != 1 || !result.AlreadyActive {
		t.Errorf("Expected same-day no-op, got streak %d", result.CurrentStreak)
	}

	// 第二天 +1
	result, err = RecordActivity(user, day1.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	if result.CurrentStreak != 2 {
		t.Errorf("Expected streak 2, got %d", result.CurrentStreak)
	}

	// 断档三天，重置为 1，最长记录保留
	result, err = RecordActivity(user, day1.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	if result.CurrentStreak != 1 {
		t.Errorf("Expected streak reset to 1, got %d", result.CurrentStreak)
	}
	if result.LongestStreak != 2 {
		t.Errorf("Expected longest streak 2, got %d", result.LongestStreak)
	}
}

func TestStreakBadgeAwardedOnce(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	// 直接把状态摆到阈值前一天
	db.DB.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumns(map[string]interface{}{
		"current_streak":   6,
		"longest_streak":   6,
		"last_active_date": "2026-03-06",
	})
	user.CurrentStreak = 6
	user.LongestStreak = 6
	user.LastActiveDate = "2026-03-06"

	day7 := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	result, err := RecordActivity(user, day7)
	if err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	if result.CurrentStreak != 7 {
		t.Fatalf("Expected streak 7, got %d", result.CurrentStreak)
	}

	var count int64
	db.DB.Model(&models.BadgeAward{}).
		Where("user_id = ? AND badge_id = ?", user.ID, "streak_7").Count(&count)
	if count != 1 {
		t.Errorf("Expected streak_7 badge awarded, got %d records", count)
	}

	// 第 8 天不再重复发
	if _, err := RecordActivity(user, day7.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	db.DB.Model(&models.BadgeAward{}).
		Where("user_id = ? AND badge_id = ?", user.ID, "streak_7").Count(&count)
	if count != 1 {
		t.Errorf("Expected streak_7 badge once, got %d records", count)
	}
}

func TestCheckKarmaBadges(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	// karma 一次跨过两个阈值，两枚都补发
	db.DB.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumn("karma", 1500)

	newBadges, err := CheckKarmaBadges(user.ID)
	if err != nil {
		t.Fatalf("CheckKarmaBadges failed: %v", err)
	}
	if len(newBadges) != 2 {
		t.Fatalf("Expected 2 new badges, got %d", len(newBadges))
	}

	// 再查一遍不重复发
	newBadges, err = CheckKarmaBadges(user.ID)
	if err != nil {
		t.Fatalf("CheckKarmaBadges failed: %v", err)
	}
	if len(newBadges) != 0 {
		t.Errorf("Expected no new badges on recheck, got %d", len(newBadges))
	}
}

func TestAddKarmaUpdatesAggregates(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	if err := AddKarma(user.ID, 5, KarmaKindPost, ActionPostVoted); err != nil {
		t.Fatalf("AddKarma failed: %v", err)
	}
	if err := AddKarma(user.ID, -2, KarmaKindComment, ActionCommentVoted); err != nil {
		t.Fatalf("AddKarma failed: %v", err)
	}

	var got models.User
	db.DB.First(&got, user.ID)
	if got.Karma != 3 {
		t.Errorf("Expected karma 3, got %d", got.Karma)
	}
	if got.PostKarma != 5 || got.CommentKarma != -2 {
		t.Errorf("Expected split (5, -2), got (%d, %d)", got.PostKarma, got.CommentKarma)
	}

	// 明细逐笔记账
	var count int64
	db.DB.Model(&models.KarmaLog{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 log entries, got %d", count)
	}
}
