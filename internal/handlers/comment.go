package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/services"
	"banyan/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type createCommentRequest struct {
	Username string `json:"username"`
	Body     string `json:"body"`
	ParentID string `json:"parentId"` // 父评论 uuid，顶层留空
}

// Create 发表评论，深度和路径从父评论推导
// POST /posts/:postId/comments
func (h *CommentHandler) Create(c *gin.Context) {
	post := findPostByPublicID(c.Param("postId"), true)
	if post == nil {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		JSONError(c, http.StatusBadRequest, "body is required")
		return
	}
	user := findUserByUsername(req.Username)
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	comment := models.Comment{
		CommentID: uuid.New().String(),
		PostID:    post.ID,
		UserID:    user.ID,
		Body:      req.Body,
		Status:    models.ContentStatusActive,
	}

	var parent *models.Comment
	if req.ParentID != "" {
		parent = findCommentByPublicID(req.ParentID, true)
		if parent == nil || parent.PostID != post.ID {
			JSONError(c, http.StatusNotFound, "Parent comment not found")
			return
		}
		comment.ParentID = &parent.ID
		comment.Depth = parent.Depth + 1
	}

	firstComment := user.CommentCount == 0
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		// path 要用自己的主键，建完再补
		path := fmt.Sprintf("%d", comment.ID)
		if parent != nil {
			path = parent.Path + "/" + path
		}
		if err := tx.Model(&comment).UpdateColumn("path", path).Error; err != nil {
			return err
		}
		comment.Path = path

		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error; err != nil {
			return err
		}
		if parent != nil {
			if err := tx.Model(&models.Comment{}).Where("id = ?", parent.ID).
				UpdateColumn("reply_count", gorm.Expr("reply_count + ?", 1)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create comment")
		return
	}

	if firstComment {
		go services.AwardBadge(user.ID, "first_comment", true)
	}
	utils.GetCache().Delete("post:" + post.PostID)

	c.JSON(http.StatusCreated, comment)
}

// List 帖子下的评论树，先按排序规则排平铺列表再组树，
// 兄弟节点顺序由排序结果决定。
// 作者自删的评论保留 "[deleted]" 占位，回复不脱离原位置；
// 治理下架（hidden/removed）的才从树里剔除
// GET /posts/:postId/comments?sort=best|new|top|controversial
func (h *CommentHandler) List(c *gin.Context) {
	post := findPostByPublicID(c.Param("postId"), true)
	if post == nil {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	sortBy := c.DefaultQuery("sort", "best")

	var comments []models.Comment
	err := db.DB.Where("post_id = ? AND status IN ?", post.ID,
		[]string{models.ContentStatusActive, models.ContentStatusDeleted}).
		Order("created_at asc").Find(&comments).Error
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load comments")
		return
	}

	switch sortBy {
	case "best":
		sort.SliceStable(comments, func(i, j int) bool {
			return utils.BestScore(comments[i].Upvotes, comments[i].Downvotes) >
				utils.BestScore(comments[j].Upvotes, comments[j].Downvotes)
		})
	case "new":
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		})
	case "top":
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].Score > comments[j].Score
		})
	case "controversial":
		sort.SliceStable(comments, func(i, j int) bool {
			return utils.ControversyComment(comments[i].Upvotes, comments[i].Downvotes) >
				utils.ControversyComment(comments[j].Upvotes, comments[j].Downvotes)
		})
	default:
		JSONError(c, http.StatusBadRequest, "sort must be 'best', 'new', 'top', or 'controversial'")
		return
	}

	tree := services.BuildCommentTree(comments)
	c.JSON(http.StatusOK, gin.H{"comments": tree, "count": len(comments)})
}

// Get 单条评论
// GET /comments/:commentId
func (h *CommentHandler) Get(c *gin.Context) {
	comment := findCommentByPublicID(c.Param("commentId"), true)
	if comment == nil {
		JSONError(c, http.StatusNotFound, "Comment not found")
		return
	}
	c.JSON(http.StatusOK, comment)
}

type updateCommentRequest struct {
	Username string `json:"username"`
	Body     string `json:"body"`
}

// Update 编辑评论，仅作者本人，打 edited 标记
// PUT /comments/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	comment := findCommentByPublicID(c.Param("commentId"), true)
	if comment == nil {
		JSONError(c, http.StatusNotFound, "Comment not found")
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		JSONError(c, http.StatusBadRequest, "body is required")
		return
	}
	user := findUserByUsername(req.Username)
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}
	if user.ID != comment.UserID {
		JSONError(c, http.StatusForbidden, "Only the author can edit this comment")
		return
	}

	err := db.DB.Model(comment).Updates(map[string]interface{}{
		"body":   req.Body,
		"edited": true,
	}).Error
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to update comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete 软删除，正文替换为占位文案，树结构保留
// DELETE /comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	comment := findCommentByPublicID(c.Param("commentId"), true)
	if comment == nil {
		JSONError(c, http.StatusNotFound, "Comment not found")
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
	if user.ID != comment.UserID {
		JSONError(c, http.StatusForbidden, "Only the author can delete this comment")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(comment).UpdateColumns(map[string]interface{}{
			"status": models.ContentStatusDeleted,
			"body":   "[deleted]",
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - ?", 1)).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
