package handlers

import (
	"net/http"
	"sort"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/services"
	"banyan/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 排序候选集上限，热度类排序在内存里重排最近这批
const sortCandidateLimit = 200

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

type createPostRequest struct {
	Username string `json:"username"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Create 发布帖子
// POST /communities/:name/posts
func (h *PostHandler) Create(c *gin.Context) {
	community := findCommunityByName(c.Param("name"))
	if community == nil {
		JSONError(c, http.StatusNotFound, "Community not found")
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		JSONError(c, http.StatusBadRequest, "title is required")
		return
	}
	user := findUserByUsername(req.Username)
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	post := models.Post{
		PostID:      uuid.New().String(),
		CommunityID: community.ID,
		UserID:      user.ID,
		Title:       utils.SanitizeText(req.Title),
		Body:        req.Body,
		Status:      models.ContentStatusActive,
	}

	firstPost := user.PostCount == 0
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Community{}).Where("id = ?", community.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create post")
		return
	}

	// 首帖徽章异步发放
	if firstPost {
		go services.AwardBadge(user.ID, "first_post", true)
	}

	c.JSON(http.StatusCreated, post)
}

// List 社区帖子列表，支持 new/hot/top/controversial 排序和时间窗过滤
// GET /communities/:name/posts?sort=&timeframe=&limit=
func (h *PostHandler) List(c *gin.Context) {
	community := findCommunityByName(c.Param("name"))
	if community == nil {
		JSONError(c, http.StatusNotFound, "Community not found")
		return
	}

	sortBy := c.DefaultQuery("sort", "new")
	timeframe := c.DefaultQuery("timeframe", utils.TimeframeAll)
	limit := utils.ClampLimit(c.Query("limit"), 25, 100)

	if !utils.ValidTimeframe(timeframe) {
		JSONError(c, http.StatusBadRequest, "timeframe must be 'day', 'week', 'month', or 'all'")
		return
	}

	now := time.Now()
	query := db.DB.Where("community_id = ? AND status = ?", community.ID, models.ContentStatusActive)
	if cutoff, ok := utils.TimeframeCutoff(timeframe, now); ok {
		query = query.Where("created_at >= ?", cutoff)
	}

	var posts []models.Post
	switch sortBy {
	case "new":
		if err := query.Order("created_at desc").Limit(limit).Find(&posts).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to load posts")
			return
		}
	case "top":
		if err := query.Order("score desc").Order("created_at desc").Limit(limit).Find(&posts).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to load posts")
			return
		}
	case "hot", "controversial":
		// 先取最近的候选集，再按计算分在内存里重排
		if err := query.Order("created_at desc").Limit(sortCandidateLimit).Find(&posts).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to load posts")
			return
		}
		if sortBy == "hot" {
			sort.SliceStable(posts, func(i, j int) bool {
				return utils.HotScore(posts[i].Score, posts[i].CreatedAt, now) >
					utils.HotScore(posts[j].Score, posts[j].CreatedAt, now)
			})
		} else {
			sort.SliceStable(posts, func(i, j int) bool {
				return utils.ControversyPost(posts[i].Upvotes, posts[i].Downvotes) >
					utils.ControversyPost(posts[j].Upvotes, posts[j].Downvotes)
			})
		}
		if len(posts) > limit {
			posts = posts[:limit]
		}
	default:
		JSONError(c, http.StatusBadRequest, "sort must be 'new', 'hot', 'top', or 'controversial'")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// Trending 时间窗内的趋势榜，评论和浏览也计入热度
// GET /communities/:name/trending?timeframe=&limit=
func (h *PostHandler) Trending(c *gin.Context) {
	community := findCommunityByName(c.Param("name"))
	if community == nil {
		JSONError(c, http.StatusNotFound, "Community not found")
		return
	}

	timeframe := c.DefaultQuery("timeframe", utils.TimeframeDay)
	limit := utils.ClampLimit(c.Query("limit"), 25, 100)
	// 趋势榜只看时间窗内的新内容，不提供 all
	if !utils.ValidTimeframe(timeframe) || timeframe == utils.TimeframeAll {
		JSONError(c, http.StatusBadRequest, "timeframe must be 'day', 'week', or 'month'")
		return
	}

	cacheKey := "trending:" + community.Name + ":" + timeframe
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		posts := cached.([]models.Post)
		if len(posts) > limit {
			posts = posts[:limit]
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
		return
	}

	now := time.Now()
	query := db.DB.Where("community_id = ? AND status = ?", community.ID, models.ContentStatusActive)
	if cutoff, ok := utils.TimeframeCutoff(timeframe, now); ok {
		query = query.Where("created_at >= ?", cutoff)
	}

	var posts []models.Post
	if err := query.Order("created_at desc").Limit(sortCandidateLimit).Find(&posts).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return utils.TrendingScore(posts[i].Score, posts[i].CommentCount, posts[i].ViewCount, posts[i].CreatedAt, now) >
			utils.TrendingScore(posts[j].Score, posts[j].CommentCount, posts[j].ViewCount, posts[j].CreatedAt, now)
	})
	utils.GetCache().Set(cacheKey, posts, time.Minute)

	if len(posts) > limit {
		posts = posts[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

type postDetail struct {
	models.Post
	BodyHTML string `json:"body_html"`
}

// Get 帖子详情，正文渲染成 HTML，浏览数异步 +1。
// 详情短缓存，投票/编辑/删除时主动失效
// GET /posts/:postId
func (h *PostHandler) Get(c *gin.Context) {
	cacheKey := "post:" + c.Param("postId")
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		detail := cached.(postDetail)
		go db.DB.Model(&models.Post{}).Where("id = ?", detail.ID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		c.JSON(http.StatusOK, detail)
		return
	}

	post := findPostByPublicID(c.Param("postId"), true)
	if post == nil {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	go db.DB.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))

	detail := postDetail{
		Post:     *post,
		BodyHTML: utils.RenderMarkdown(post.Body),
	}
	utils.GetCache().Set(cacheKey, detail, time.Minute)
	c.JSON(http.StatusOK, detail)
}

type updatePostRequest struct {
	Username string `json:"username"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Update 编辑帖子，仅作者本人
// PUT /posts/:postId
func (h *PostHandler) Update(c *gin.Context) {
	post := findPostByPublicID(c.Param("postId"), true)
	if post == nil {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user := findUserByUsername(req.Username)
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}
	if user.ID != post.UserID {
		JSONError(c, http.StatusForbidden, "Only the author can edit this post")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = utils.SanitizeText(req.Title)
	}
	if req.Body != "" {
		updates["body"] = req.Body
	}
	if len(updates) > 0 {
		if err := db.DB.Model(post).Updates(updates).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "failed to update post")
			return
		}
	}
	utils.GetCache().Delete("post:" + post.PostID)

	c.JSON(http.StatusOK, post)
}

type deleteRequest struct {
	Username string `json:"username"`
}

// Delete 软删除，仅作者本人。内容保留，状态转 deleted
// DELETE /posts/:postId
func (h *PostHandler) Delete(c *gin.Context) {
	post := findPostByPublicID(c.Param("postId"), true)
	if post == nil {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user := findUserByUsername(req.Username)
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}
	if user.ID != post.UserID {
		JSONError(c, http.StatusForbidden, "Only the author can delete this post")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).UpdateColumn("status", models.ContentStatusDeleted).Error; err != nil {
			return err
		}
		return tx.Model(&models.Community{}).Where("id = ?", post.CommunityID).
			UpdateColumn("post_count", gorm.Expr("post_count - ?", 1)).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}
	utils.GetCache().Delete("post:" + post.PostID)

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
