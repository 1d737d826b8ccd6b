package handlers

import (
	"errors"
	"net/http"

	"banyan/internal/services"
	"banyan/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type voteRequest struct {
	VoterID string `json:"voterId"`
	Vote    string `json:"vote"`
}

// VotePost 对帖子投票
// POST /posts/:postId/vote  body: {"voterId": "...", "vote": "up|down|remove"}
func (h *VoteHandler) VotePost(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VoterID == "" {
		JSONError(c, http.StatusBadRequest, "voterId is required")
		return
	}

	voter := findUserByUsername(req.VoterID)
	if voter == nil {
		JSONError(c, http.StatusNotFound, "Voter not found")
		return
	}
	post := findPostByPublicID(c.Param("postId"), true)
	if post == nil {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	result, err := services.CastPostVote(voter, post, req.Vote)
	if err != nil {
		if errors.Is(err, services.ErrInvalidVote) {
			JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		JSONError(c, http.StatusInternalServerError, "failed to record vote")
		return
	}

	// 异步对账校正 + 给作者加积分，不阻塞响应
	services.GetReconciler().Schedule(services.ContentKindPost, post.ID)
	if result.ScoreDelta != 0 && post.UserID != voter.ID {
		services.AddKarmaVoteAsync(post.UserID, result.ScoreDelta, services.KarmaKindPost, services.ActionPostVoted)
	}
	utils.GetCache().Delete("post:" + post.PostID)

	c.JSON(http.StatusOK, result)
}

// GetPostVote 查询某用户对帖子的当前投票
// GET /posts/:postId/vote?voterId=...
func (h *VoteHandler) GetPostVote(c *gin.Context) {
	voterID := c.Query("voterId")
	if voterID == "" {
		JSONError(c, http.StatusBadRequest, "voterId is required")
		return
	}
	voter := findUserByUsername(voterID)
	if voter == nil {
		JSONError(c, http.StatusNotFound, "Voter not found")
		return
	}
	post := findPostByPublicID(c.Param("postId"), true)
	if post == nil {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	voteType, err := services.GetPostVote(voter.ID, post.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load vote")
		return
	}
	if voteType == "" {
		c.JSON(http.StatusOK, gin.H{"vote": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vote": voteType})
}

// VoteComment 对评论投票
// POST /comments/:commentId/vote
func (h *VoteHandler) VoteComment(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VoterID == "" {
		JSONError(c, http.StatusBadRequest, "voterId is required")
		return
	}

	voter := findUserByUsername(req.VoterID)
	if voter == nil {
		JSONError(c, http.StatusNotFound, "Voter not found")
		return
	}
	comment := findCommentByPublicID(c.Param("commentId"), true)
	if comment == nil {
		JSONError(c, http.StatusNotFound, "Comment not found")
		return
	}

	result, err := services.CastCommentVote(voter, comment, req.Vote)
	if err != nil {
		if errors.Is(err, services.ErrInvalidVote) {
			JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		JSONError(c, http.StatusInternalServerError, "failed to record vote")
		return
	}

	services.GetReconciler().Schedule(services.ContentKindComment, comment.ID)
	if result.ScoreDelta != 0 && comment.UserID != voter.ID {
		services.AddKarmaVoteAsync(comment.UserID, result.ScoreDelta, services.KarmaKindComment, services.ActionCommentVoted)
	}

	c.JSON(http.StatusOK, result)
}

// GetCommentVote 查询某用户对评论的当前投票
// GET /comments/:commentId/vote?voterId=...
func (h *VoteHandler) GetCommentVote(c *gin.Context) {
	voterID := c.Query("voterId")
	if voterID == "" {
		JSONError(c, http.StatusBadRequest, "voterId is required")
		return
	}
	voter := findUserByUsername(voterID)
	if voter == nil {
		JSONError(c, http.StatusNotFound, "Voter not found")
		return
	}
	comment := findCommentByPublicID(c.Param("commentId"), true)
	if comment == nil {
		JSONError(c, http.StatusNotFound, "Comment not found")
		return
	}

	voteType, err := services.GetCommentVote(voter.ID, comment.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load vote")
		return
	}
	if voteType == "" {
		c.JSON(http.StatusOK, gin.H{"vote": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vote": voteType})
}
