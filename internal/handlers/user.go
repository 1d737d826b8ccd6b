package handlers

import (
	"net/http"
	"strings"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/services"
	"banyan/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio"`
}

// Create 创建用户，用户名唯一
// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		JSONError(c, http.StatusBadRequest, "username is required")
		return
	}
	if findUserByUsername(req.Username) != nil {
		JSONError(c, http.StatusConflict, "Username already taken")
		return
	}

	user := models.User{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
		Bio:         utils.SanitizeText(req.Bio),
		Status:      "active",
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	if err := db.DB.Create(&user).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get 用户资料
// GET /users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user := findUserByUsername(c.Param("username"))
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

type karmaRequest struct {
	PostDelta    int `json:"postDelta"`
	CommentDelta int `json:"commentDelta"`
}

// AdjustKarma 协作端点，其它模块直接调整用户 karma 分项
// POST /users/:username/karma
func (h *UserHandler) AdjustKarma(c *gin.Context) {
	user := findUserByUsername(c.Param("username"))
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	var req karmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PostDelta == 0 && req.CommentDelta == 0 {
		JSONError(c, http.StatusBadRequest, "postDelta or commentDelta is required")
		return
	}

	if req.PostDelta != 0 {
		if err := services.AddKarma(user.ID, req.PostDelta, services.KarmaKindPost, services.ActionAdjustment); err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to adjust karma")
			return
		}
	}
	if req.CommentDelta != 0 {
		if err := services.AddKarma(user.ID, req.CommentDelta, services.KarmaKindComment, services.ActionAdjustment); err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to adjust karma")
			return
		}
	}
	// 调整后顺手补发够格的 karma 徽章
	if _, err := services.CheckKarmaBadges(user.ID); err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to check badges")
		return
	}

	updated := findUserByID(user.ID)
	c.JSON(http.StatusOK, gin.H{
		"karma":        updated.Karma,
		"postKarma":    updated.PostKarma,
		"commentKarma": updated.CommentKarma,
	})
}
