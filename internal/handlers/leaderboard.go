package handlers

import (
	"errors"
	"net/http"
	"time"

	"banyan/internal/services"
	"banyan/internal/utils"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct{}

func NewLeaderboardHandler() *LeaderboardHandler {
	return &LeaderboardHandler{}
}

// Community 社区贡献榜
// GET /communities/:name/leaderboard?timeframe=&limit=
func (h *LeaderboardHandler) Community(c *gin.Context) {
	community := findCommunityByName(c.Param("name"))
	if community == nil {
		JSONError(c, http.StatusNotFound, "Community not found")
		return
	}

	timeframe := c.DefaultQuery("timeframe", utils.TimeframeAll)
	limit := utils.ClampLimit(c.Query("limit"), 10, 100)
	if !utils.ValidTimeframe(timeframe) {
		JSONError(c, http.StatusBadRequest, "timeframe must be 'day', 'week', 'month', or 'all'")
		return
	}

	cacheKey := "leaderboard:" + community.Name + ":" + timeframe
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		entries := cached.([]services.LeaderboardEntry)
		if len(entries) > limit {
			entries = entries[:limit]
		}
		c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "timeframe": timeframe})
		return
	}

	entries, err := services.CommunityLeaderboard(community.ID, timeframe, 100, time.Now())
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to build leaderboard")
		return
	}
	utils.GetCache().Set(cacheKey, entries, time.Minute)

	if len(entries) > limit {
		entries = entries[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "timeframe": timeframe})
}

// Global 全站榜，按 karma/posts/comments/streak 之一排序
// GET /leaderboard?metric=&limit=
func (h *LeaderboardHandler) Global(c *gin.Context) {
	metric := c.DefaultQuery("metric", "karma")
	limit := utils.ClampLimit(c.Query("limit"), 10, 100)

	entries, err := services.GlobalLeaderboard(metric, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMetric) {
			JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		JSONError(c, http.StatusInternalServerError, "failed to build leaderboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "metric": metric})
}
