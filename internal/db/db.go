package db

import (
	"log"
	"os"

	"banyan/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=banyan port=5432 sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	// TranslateError 让唯一索引冲突以 gorm.ErrDuplicatedKey 暴露，投票服务靠它识别并发竞争
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial communities
	seedCommunities()
}

// Migrate 建表，测试环境复用
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.KarmaLog{},
		&models.BadgeAward{},
		// 投票箱相关模型
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
	)
}

func seedCommunities() {
	// 检查是否已有社区数据
	var count int64
	DB.Model(&models.Community{}).Count(&count)
	if count > 0 {
		log.Println("Communities already seeded, skipping")
		return
	}

	// 创建预设社区
	communities := []models.Community{
		{Name: "general", Description: "General discussion"},
		{Name: "tech", Description: "Technology news and debate"},
		{Name: "gaming", Description: "Gaming talk"},
		{Name: "showcase", Description: "Show off your work"},
	}

	for _, comm := range communities {
		if err := DB.Create(&comm).Error; err != nil {
			log.Printf("Failed to create community %s: %v", comm.Name, err)
		}
	}
	log.Println("Initial communities created successfully")
}
