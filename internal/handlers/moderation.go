package handlers

import (
	"net/http"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/utils"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct{}

func NewModerationHandler() *ModerationHandler {
	return &ModerationHandler{}
}

type moderationRequest struct {
	ModeratorID string `json:"moderatorId"`
}

// 各动作的目标状态
var moderationActions = map[string]string{
	"hide":    models.ContentStatusHidden,
	"remove":  models.ContentStatusRemoved,
	"restore": models.ContentStatusActive,
}

// Apply 状态流转：hide 临时下架、remove 治理移除、restore 恢复。
// 作者自删（deleted）不在此列，restore 也救不回来
// POST /moderation/:type/:id/:action
func (h *ModerationHandler) Apply(c *gin.Context) {
	action := c.Param("action")
	newStatus, ok := moderationActions[action]
	if !ok {
		JSONError(c, http.StatusBadRequest, "action must be 'hide', 'remove', or 'restore'")
		return
	}

	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ModeratorID == "" {
		JSONError(c, http.StatusBadRequest, "moderatorId is required")
		return
	}
	moderator := findUserByUsername(req.ModeratorID)
	if moderator == nil {
		JSONError(c, http.StatusNotFound, "Moderator not found")
		return
	}

	itemType := c.Param("type")
	id := c.Param("id")

	switch itemType {
	case "post":
		post := findPostByPublicID(id, false)
		if post == nil {
			JSONError(c, http.StatusNotFound, "Post not found")
			return
		}
		if post.Status == models.ContentStatusDeleted {
			JSONError(c, http.StatusBadRequest, "cannot moderate deleted content")
			return
		}
		if err := db.DB.Model(post).UpdateColumn("status", newStatus).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to update status")
			return
		}
		utils.GetCache().Delete("post:" + post.PostID)
		c.JSON(http.StatusOK, gin.H{"id": post.PostID, "status": newStatus})
	case "comment":
		comment := findCommentByPublicID(id, false)
		if comment == nil {
			JSONError(c, http.StatusNotFound, "Comment not found")
			return
		}
		if comment.Status == models.ContentStatusDeleted {
			JSONError(c, http.StatusBadRequest, "cannot moderate deleted content")
			return
		}
		if err := db.DB.Model(comment).UpdateColumn("status", newStatus).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to update status")
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": comment.CommentID, "status": newStatus})
	default:
		JSONError(c, http.StatusBadRequest, "type must be 'post' or 'comment'")
	}
}
