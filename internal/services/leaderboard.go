package services

import (
	"errors"
	"sort"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/utils"
)

var (
	// ErrInvalidMetric 全站排行榜的 metric 不合法
	ErrInvalidMetric = errors.New("metric must be 'karma', 'posts', 'comments', or 'streak'")
)

// LeaderboardEntry 排行榜单行
type LeaderboardEntry struct {
	Rank     uint   `json:"rank"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Posts    int    `json:"posts"`
	Comments int    `json:"comments"`
}

// CommunityLeaderboard 统计某社区在时间窗内的用户贡献分。
// 分值 = 窗口内帖子得分之和 + 评论得分之和（评论按所在帖子归属社区）。
// 只统计 active 内容。同分用户保持先出现者在前，名次从 1 开始连续编号
func CommunityLeaderboard(communityID uint, timeframe string, limit int, now time.Time) ([]LeaderboardEntry, error) {
	cutoff, windowed := utils.TimeframeCutoff(timeframe, now)

	postQuery := db.DB.Where("community_id = ? AND status = ?", communityID, models.ContentStatusActive)
	if windowed {
		postQuery = postQuery.Where("created_at >= ?", cutoff)
	}
	var posts []models.Post
	if err := postQuery.Order("id asc").Find(&posts).Error; err != nil {
		return nil, err
	}

	commentQuery := db.DB.
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.community_id = ? AND comments.status = ?", communityID, models.ContentStatusActive)
	if windowed {
		commentQuery = commentQuery.Where("comments.created_at >= ?", cutoff)
	}
	var comments []models.Comment
	if err := commentQuery.Order("comments.id asc").Find(&comments).Error; err != nil {
		return nil, err
	}

	type agg struct {
		score    int
		posts    int
		comments int
	}
	stats := make(map[uint]*agg)
	order := make([]uint, 0)
	touch := func(userID uint) *agg {
		a, ok := stats[userID]
		if !ok {
			a = &agg{}
			stats[userID] = a
			order = append(order, userID)
		}
		return a
	}
	for i := range posts {
		a := touch(posts[i].UserID)
		a.score += posts[i].Score
		a.posts++
	}
	for i := range comments {
		a := touch(comments[i].UserID)
		a.score += comments[i].Score
		a.comments++
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, userID := range order {
		a := stats[userID]
		entries = append(entries, LeaderboardEntry{
			UserID:   userID,
			Score:    a.score,
			Posts:    a.posts,
			Comments: a.comments,
		})
	}
	// 稳定排序，同分保持首次出现顺序
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	// 批量补用户名
	ids := make([]uint, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].UserID)
	}
	names := make(map[uint]string, len(ids))
	if len(ids) > 0 {
		var users []models.User
		if err := db.DB.Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for i := range users {
			names[users[i].ID] = users[i].Username
		}
	}
	for i := range entries {
		entries[i].Rank = uint(i + 1)
		entries[i].Username = names[entries[i].UserID]
	}
	return entries, nil
}

// GlobalLeaderboard 全站排行榜，直接读用户聚合列
func GlobalLeaderboard(metric string, limit int) ([]LeaderboardEntry, error) {
	var column string
	switch metric {
	case "karma", "":
		column = "karma"
	case "posts":
		column = "post_count"
	case "comments":
		column = "comment_count"
	case "streak":
		column = "current_streak"
	default:
		return nil, ErrInvalidMetric
	}

	var users []models.User
	err := db.DB.Where("status = ?", "active").
		Order(column + " desc").Order("id asc").
		Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i := range users {
		score := 0
		switch column {
		case "karma":
			score = users[i].Karma
		case "post_count":
			score = users[i].PostCount
		case "comment_count":
			score = users[i].CommentCount
		case "current_streak":
			score = users[i].CurrentStreak
		}
		entries = append(entries, LeaderboardEntry{
			Rank:     uint(i + 1),
			UserID:   users[i].ID,
			Username: users[i].Username,
			Score:    score,
			Posts:    users[i].PostCount,
			Comments: users[i].CommentCount,
		})
	}
	return entries, nil
}
