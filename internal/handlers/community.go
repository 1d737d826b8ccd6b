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

type CommunityHandler struct{}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{}
}

type createCommunityRequest struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create 创建社区，创建者拿 founder 徽章
// POST /communities
func (h *CommunityHandler) Create(c *gin.Context) {
	var req createCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.ToLower(strings.TrimSpace(req.Name))
	if req.Name == "" {
		JSONError(c, http.StatusBadRequest, "name is required")
		return
	}
	user := findUserByUsername(req.Username)
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}
	if findCommunityByName(req.Name) != nil {
		JSONError(c, http.StatusConflict, "Community already exists")
		return
	}

	community := models.Community{
		Name:        req.Name,
		Description: utils.SanitizeText(req.Description),
		CreatorID:   &user.ID,
	}
	if err := db.DB.Create(&community).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create community")
		return
	}

	go services.AwardBadge(user.ID, "community_founder", true)

	c.JSON(http.StatusCreated, community)
}

// List 全部社区
// GET /communities
func (h *CommunityHandler) List(c *gin.Context) {
	var communities []models.Community
	if err := db.DB.Order("post_count desc").Find(&communities).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load communities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities, "count": len(communities)})
}

// Get 单个社区
// GET /communities/:name
func (h *CommunityHandler) Get(c *gin.Context) {
	community := findCommunityByName(c.Param("name"))
	if community == nil {
		JSONError(c, http.StatusNotFound, "Community not found")
		return
	}
	c.JSON(http.StatusOK, community)
}
