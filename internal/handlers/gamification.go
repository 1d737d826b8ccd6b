package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/services"
	"banyan/internal/utils"

	"github.com/gin-gonic/gin"
)

type GamificationHandler struct{}

func NewGamificationHandler() *GamificationHandler {
	return &GamificationHandler{}
}

// RecordStreak 记录当日活跃，维护连续天数
// POST /users/:username/streak
func (h *GamificationHandler) RecordStreak(c *gin.Context) {
	user := findUserByUsername(c.Param("username"))
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	result, err := services.RecordActivity(user, time.Now())
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to record activity")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLevel 等级信息：XP、等级、头衔和升级进度
// GET /users/:username/level
func (h *GamificationHandler) GetLevel(c *gin.Context) {
	user := findUserByUsername(c.Param("username"))
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	xp := utils.XP(user.Karma, user.PostCount, user.CommentCount, user.AwardCount, user.CurrentStreak)
	level := utils.LevelForXP(xp)
	progress, needed := utils.LevelProgress(xp, level)
	title := utils.TitleForLevel(level)

	c.JSON(http.StatusOK, gin.H{
		"username":   user.Username,
		"xp":         xp,
		"level":      level,
		"title":      title.Title,
		"titleColor": title.Color,
		"xpProgress": progress,
		"xpNeeded":   needed,
	})
}

type awardBadgeRequest struct {
	BadgeID string `json:"badgeId"`
}

// AwardBadge 手动授予徽章，已持有返回 409
// POST /users/:username/badges
func (h *GamificationHandler) AwardBadge(c *gin.Context) {
	user := findUserByUsername(c.Param("username"))
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	var req awardBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "badgeId is required")
		return
	}
	// 归一化一次，授予和响应体用同一个 key
	req.BadgeID = strings.ToLower(strings.TrimSpace(req.BadgeID))
	if req.BadgeID == "" {
		JSONError(c, http.StatusBadRequest, "badgeId is required")
		return
	}

	awarded, err := services.AwardBadge(user.ID, req.BadgeID, false)
	if err != nil {
		if errors.Is(err, services.ErrUnknownBadge) {
			JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		JSONError(c, http.StatusInternalServerError, "failed to award badge")
		return
	}
	if !awarded {
		JSONError(c, http.StatusConflict, "Badge already awarded")
		return
	}
	c.JSON(http.StatusCreated, services.Badges[req.BadgeID])
}

type badgeView struct {
	models.Badge
	AutoAwarded bool      `json:"auto_awarded"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// ListBadges 用户持有的徽章，按获得时间排列
// GET /users/:username/badges
func (h *GamificationHandler) ListBadges(c *gin.Context) {
	user := findUserByUsername(c.Param("username"))
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	var awards []models.BadgeAward
	err := db.DB.Where("user_id = ?", user.ID).Order("created_at asc").Find(&awards).Error
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load badges")
		return
	}

	badges := make([]badgeView, 0, len(awards))
	for i := range awards {
		def, ok := services.Badges[awards[i].BadgeID]
		if !ok {
			continue
		}
		badges = append(badges, badgeView{
			Badge:       def,
			AutoAwarded: awards[i].AutoAwarded,
			AwardedAt:   awards[i].CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges, "count": len(badges)})
}

// CheckAchievements 核对并补发所有够格未发的自动徽章
// POST /users/:username/check-achievements
func (h *GamificationHandler) CheckAchievements(c *gin.Context) {
	user := findUserByUsername(c.Param("username"))
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	newBadges, err := services.CheckKarmaBadges(user.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to check achievements")
		return
	}

	// 发帖/评论的入门徽章也补查一遍
	if user.PostCount > 0 {
		if ok, err := services.AwardBadge(user.ID, "first_post", true); err == nil && ok {
			newBadges = append(newBadges, services.Badges["first_post"])
		}
	}
	if user.CommentCount > 0 {
		if ok, err := services.AwardBadge(user.ID, "first_comment", true); err == nil && ok {
			newBadges = append(newBadges, services.Badges["first_comment"])
		}
	}

	if newBadges == nil {
		newBadges = []models.Badge{}
	}
	c.JSON(http.StatusOK, gin.H{"newBadges": newBadges, "count": len(newBadges)})
}
