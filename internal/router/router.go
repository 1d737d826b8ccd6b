package router

import (
	"banyan/internal/handlers"
	"banyan/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	voteHandler := handlers.NewVoteHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	userHandler := handlers.NewUserHandler()
	gamificationHandler := handlers.NewGamificationHandler()
	leaderboardHandler := handlers.NewLeaderboardHandler()
	pollHandler := handlers.NewPollHandler()
	moderationHandler := handlers.NewModerationHandler()
	communityHandler := handlers.NewCommunityHandler()

	r.Use(middleware.ServiceAuth())

	// 社区 (Communities)
	r.POST("/communities", communityHandler.Create)
	r.GET("/communities", communityHandler.List)
	r.GET("/communities/:name", communityHandler.Get)

	// 帖子 (Posts)
	r.POST("/communities/:name/posts", postHandler.Create)            // 发帖
	r.GET("/communities/:name/posts", postHandler.List)               // 列表 + 排序
	r.GET("/communities/:name/trending", postHandler.Trending)        // 趋势榜
	r.GET("/communities/:name/leaderboard", leaderboardHandler.Community) // 社区贡献榜
	r.GET("/posts/:postId", postHandler.Get)
	r.PUT("/posts/:postId", postHandler.Update)
	r.DELETE("/posts/:postId", postHandler.Delete)

	// 投票 (Votes)
	r.POST("/posts/:postId/vote", voteHandler.VotePost)
	r.GET("/posts/:postId/vote", voteHandler.GetPostVote)
	r.POST("/comments/:commentId/vote", voteHandler.VoteComment)
	r.GET("/comments/:commentId/vote", voteHandler.GetCommentVote)

	// 评论 (Comments)
	r.POST("/posts/:postId/comments", commentHandler.Create)
	r.GET("/posts/:postId/comments", commentHandler.List) // 嵌套树
	r.GET("/comments/:commentId", commentHandler.Get)
	r.PUT("/comments/:commentId", commentHandler.Update)
	r.DELETE("/comments/:commentId", commentHandler.Delete)

	// 用户与成长体系 (Users & Gamification)
	r.POST("/users", userHandler.Create)
	r.GET("/users/:username", userHandler.Get)
	r.POST("/users/:username/karma", userHandler.AdjustKarma)
	r.POST("/users/:username/streak", gamificationHandler.RecordStreak)
	r.GET("/users/:username/level", gamificationHandler.GetLevel)
	r.POST("/users/:username/badges", gamificationHandler.AwardBadge)
	r.GET("/users/:username/badges", gamificationHandler.ListBadges)
	r.POST("/users/:username/check-achievements", gamificationHandler.CheckAchievements)

	// 全站榜 (Global leaderboard)
	r.GET("/leaderboard", leaderboardHandler.Global)

	// 投票帖 (Polls)
	r.POST("/communities/:name/polls", pollHandler.Create)
	r.POST("/polls/:pollId/vote", pollHandler.Vote)
	r.GET("/polls/:pollId", pollHandler.Get)

	// 治理 (Moderation)
	r.POST("/moderation/:type/:id/:action", moderationHandler.Apply)
}
