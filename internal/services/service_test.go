package services

import (
	"testing"

	"banyan/internal/db"
	"banyan/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每个测试用独立的内存库。
// 内存库随连接存在，限制为单连接避免多个空库
func setupTestDB(t *testing.T) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.DB = conn
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, DisplayName: username, Status: "active"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

func createTestCommunity(t *testing.T, name string) *models.Community {
	t.Helper()
	community := models.Community{Name: name}
	if err := db.DB.Create(&community).Error; err != nil {
		t.Fatalf("Failed to create test community: %v", err)
	}
	return &community
}

func createTestPost(t *testing.T, community *models.Community, user *models.User, title string) *models.Post {
	t.Helper()
	post := models.Post{
		PostID:      uuid.New().String(),
		CommunityID: community.ID,
		UserID:      user.ID,
		Title:       title,
		Status:      models.ContentStatusActive,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return &post
}

func createTestComment(t *testing.T, post *models.Post, user *models.User, parent *models.Comment, body string) *models.Comment {
	t.Helper()
	comment := models.Comment{
		CommentID: uuid.New().String(),
		PostID:    post.ID,
		UserID:    user.ID,
		Body:      body,
		Status:    models.ContentStatusActive,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
		comment.Depth = parent.Depth + 1
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}
	return &comment
}

func reloadPost(t *testing.T, id uint) *models.Post {
	t.Helper()
	var post models.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		t.Fatalf("Failed to reload post: %v", err)
	}
	return &post
}
