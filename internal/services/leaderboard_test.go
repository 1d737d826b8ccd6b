package services

import (
	"testing"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/utils"
)

func TestCommunityLeaderboard(t *testing.T) {
	setupTestDB(t)
	community := createTestCommunity(t, "general")
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	p1 := createTestPost(t, community, alice, "alice post")
	db.DB.Model(p1).UpdateColumn("score", 10)
	p2 := createTestPost(t, community, bob, "bob post")
	db.DB.Model(p2).UpdateColumn("score", 3)
	c1 := createTestComment(t, p1, bob, nil, "nice")
	db.DB.Model(c1).UpdateColumn("score", 4)

	entries, err := CommunityLeaderboard(community.ID, utils.TimeframeAll, 10, time.Now())
	if err != nil {
		t.Fatalf("CommunityLeaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	// alice 10 > bob 3+4=7
	if entries[0].Username != "alice" || entries[0].Score != 10 {
		t.Errorf("Expected alice first with 10, got %s with %d", entries[0].Username, entries[0].Score)
	}
	if entries[1].Username != "bob" || entries[1].Score != 7 {
		t.Errorf("Expected bob second with 7, got %s with %d", entries[1].Username, entries[1].Score)
	}

	// 名次连续编号
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Errorf("Expected ranks 1 and 2, got %d and %d", entries[0].Rank, entries[1].Rank)
	}
	if entries[1].Posts != 1 || entries[1].Comments != 1 {
		t.Errorf("Expected bob counts (1, 1), got (%d, %d)", entries[1].Posts, entries[1].Comments)
	}
}

func TestCommunityLeaderboardTimeframe(t *testing.T) {
	setupTestDB(t)
	community := createTestCommunity(t, "general")
	alice := createTestUser(t, "alice")

	// 窗口外的旧帖不计入
	old := createTestPost(t, community, alice, "old post")
	db.DB.Model(old).UpdateColumns(map[string]interface{}{
		"score":      100,
		"created_at": time.Now().AddDate(0, 0, -10),
	})
	fresh := createTestPost(t, community, alice, "fresh post")
	db.DB.Model(fresh).UpdateColumn("score", 5)

	entries, err := CommunityLeaderboard(community.ID, utils.TimeframeWeek, 10, time.Now())
	if err != nil {
		t.Fatalf("CommunityLeaderboard failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Score != 5 {
		t.Errorf("Expected windowed score 5, got %d", entries[0].Score)
	}
}

func TestCommunityLeaderboardSkipsInactiveContent(t *testing.T) {
	setupTestDB(t)
	community := createTestCommunity(t, "general")
	alice := createTestUser(t, "alice")

	removed := createTestPost(t, community, alice, "removed post")
	db.DB.Model(removed).UpdateColumns(map[string]interface{}{
		"score":  50,
		"status": models.ContentStatusRemoved,
	})

	entries, err := CommunityLeaderboard(community.ID, utils.TimeframeAll, 10, time.Now())
	if err != nil {
		t.Fatalf("CommunityLeaderboard failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected removed content excluded, got %d entries", len(entries))
	}
}

func TestGlobalLeaderboard(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	db.DB.Model(&models.User{}).Where("id = ?", alice.ID).UpdateColumn("karma", 10)
	db.DB.Model(&models.User{}).Where("id = ?", bob.ID).UpdateColumn("karma", 20)

	entries, err := GlobalLeaderboard("karma", 10)
	if err != nil {
		t.Fatalf("GlobalLeaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Username != "bob" {
		t.Errorf("Expected bob first, got %s", entries[0].Username)
	}

	if _, err := GlobalLeaderboard("bogus", 10); err != ErrInvalidMetric {
		t.Errorf("Expected ErrInvalidMetric, got %v", err)
	}
}
