package handlers

import (
	"banyan/internal/db"
	"banyan/internal/models"

	"github.com/gin-gonic/gin"
)

// JSONError 统一错误响应格式 {"message": "..."}
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// findUserByUsername 按用户名查用户，找不到返回 nil
func findUserByUsername(username string) *models.User {
	var user models.User
	err := db.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil
	}
	return &user
}

// findUserByID 按内部 id 查用户
func findUserByID(id uint) *models.User {
	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		return nil
	}
	return &user
}

// findPostByPublicID 按对外 uuid 查帖子。activeOnly 时过滤掉隐藏/删除的
func findPostByPublicID(postID string, activeOnly bool) *models.Post {
	var post models.Post
	query := db.DB.Where("post_id = ?", postID)
	if activeOnly {
		query = query.Where("status = ?", models.ContentStatusActive)
	}
	if err := query.First(&post).Error; err != nil {
		return nil
	}
	return &post
}

// findCommentByPublicID 按对外 uuid 查评论
func findCommentByPublicID(commentID string, activeOnly bool) *models.Comment {
	var comment models.Comment
	query := db.DB.Where("comment_id = ?", commentID)
	if activeOnly {
		query = query.Where("status = ?", models.ContentStatusActive)
	}
	if err := query.First(&comment).Error; err != nil {
		return nil
	}
	return &comment
}

// findCommunityByName 按名称查社区
func findCommunityByName(name string) *models.Community {
	var community models.Community
	if err := db.DB.Where("name = ?", name).First(&community).Error; err != nil {
		return nil
	}
	return &community
}
