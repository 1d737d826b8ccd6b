package handlers

import (
	"errors"
	"net/http"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"
	"banyan/internal/services"

	"github.com/gin-gonic/gin"
)

type PollHandler struct{}

func NewPollHandler() *PollHandler {
	return &PollHandler{}
}

func findPollByPublicID(pollID string) *models.Poll {
	var poll models.Poll
	err := db.DB.Where("poll_id = ? AND status = ?", pollID, models.PollStatusActive).First(&poll).Error
	if err != nil {
		return nil
	}
	return &poll
}

type createPollRequest struct {
	Username      string     `json:"username"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	AllowMultiple bool       `json:"allowMultiple"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// Create 创建投票帖
// POST /communities/:name/polls
func (h *PollHandler) Create(c *gin.Context) {
	community := findCommunityByName(c.Param("name"))
	if community == nil {
		JSONError(c, http.StatusNotFound, "Community not found")
		return
	}

	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		JSONError(c, http.StatusBadRequest, "question is required")
		return
	}
	user := findUserByUsername(req.Username)
	if user == nil {
		JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	poll, err := services.CreatePoll(community.ID, user.ID, req.Question, req.Options, req.AllowMultiple, req.ExpiresAt)
	if err != nil {
		if errors.Is(err, services.ErrPollOptions) {
			JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		JSONError(c, http.StatusInternalServerError, "failed to create poll")
		return
	}
	c.JSON(http.StatusCreated, poll)
}

type pollVoteRequest struct {
	VoterID   string   `json:"voterId"`
	OptionIDs []string `json:"optionIds"`
}

// Vote 给投票帖投票，重复投票整体替换之前的选择
// POST /polls/:pollId/vote
func (h *PollHandler) Vote(c *gin.Context) {
	poll := findPollByPublicID(c.Param("pollId"))
	if poll == nil {
		JSONError(c, http.StatusNotFound, "Poll not found")
		return
	}

	var req pollVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	voter := findUserByUsername(req.VoterID)
	if voter == nil {
		JSONError(c, http.StatusNotFound, "Voter not found")
		return
	}

	err := services.CastPollVote(poll, voter.ID, req.OptionIDs, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPollExpired):
			JSONError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPollSingleChoice),
			errors.Is(err, services.ErrPollOptionUnknown),
			errors.Is(err, services.ErrPollNoSelection):
			JSONError(c, http.StatusBadRequest, err.Error())
		default:
			JSONError(c, http.StatusInternalServerError, "failed to record poll vote")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

// Get 投票帖详情和各选项占比
// GET /polls/:pollId
func (h *PollHandler) Get(c *gin.Context) {
	poll := findPollByPublicID(c.Param("pollId"))
	if poll == nil {
		JSONError(c, http.StatusNotFound, "Poll not found")
		return
	}

	results, err := services.PollResults(poll)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load poll results")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"poll":    poll,
		"results": results,
		"expired": time.Now().After(poll.ExpiresAt),
	})
}
