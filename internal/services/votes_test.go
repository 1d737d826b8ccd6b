package services

import (
	"errors"
	"testing"

	"banyan/internal/db"
	"banyan/internal/models"

	"gorm.io/gorm"
)

func TestVoteDeltas(t *testing.T) {
	cases := []struct {
		prev, decision     string
		upDelta, downDelta int
	}{
		{"", models.VoteUp, 1, 0},
		{"", models.VoteDown, 0, 1},
		{"", models.VoteRemove, 0, 0},
		{models.VoteUp, models.VoteUp, 0, 0},
		{models.VoteDown, models.VoteDown, 0, 0},
		{models.VoteUp, models.VoteDown, -1, 1},
		{models.VoteDown, models.VoteUp, 1, -1},
		{models.VoteUp, models.VoteRemove, -1, 0},
		{models.VoteDown, models.VoteRemove, 0, -1},
	}
	for _, tc := range cases {
		up, down := VoteDeltas(tc.prev, tc.decision)
		if up != tc.upDelta || down != tc.downDelta {
			t.Errorf("VoteDeltas(%q, %q) = (%d, %d), expected (%d, %d)",
				tc.prev, tc.decision, up, down, tc.upDelta, tc.downDelta)
		}
	}
}

func TestCastPostVoteIdempotent(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	voter := createTestUser(t, "voter")
	community := createTestCommunity(t, "general")
	post := createTestPost(t, community, author, "hello")

	// 第一次 up
	result, err := CastPostVote(voter, post, models.VoteUp)
	if err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}
	if result.ScoreDelta != 1 {
		t.Errorf("Expected scoreDelta 1, got %d", result.ScoreDelta)
	}

	// 重复 up 不再改变计数
	result, err = CastPostVote(voter, post, models.VoteUp)
	if err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}
	if result.ScoreDelta != 0 {
		t.Errorf("Expected scoreDelta 0 on repeat vote, got %d", result.ScoreDelta)
	}

	got := reloadPost(t, post.ID)
	if got.Upvotes != 1 || got.Downvotes != 0 || got.Score != 1 {
		t.Errorf("Expected counters (1, 0, 1), got (%d, %d, %d)", got.Upvotes, got.Downvotes, got.Score)
	}

	// 票记录只有一条
	var count int64
	db.DB.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 vote record, got %d", count)
	}
}

func TestCastPostVoteTransition(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	voter := createTestUser(t, "voter")
	community := createTestCommunity(t, "general")
	post := createTestPost(t, community, author, "hello")

	if _, err := CastPostVote(voter, post, models.VoteUp); err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}

	// up 改成 down，一步到位不留中间态
	result, err := CastPostVote(voter, post, models.VoteDown)
	if err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}
	if result.ScoreDelta != -2 {
		t.Errorf("Expected scoreDelta -2, got %d", result.ScoreDelta)
	}

	got := reloadPost(t, post.ID)
	if got.Upvotes != 0 || got.Downvotes != 1 || got.Score != -1 {
		t.Errorf("Expected counters (0, 1, -1), got (%d, %d, %d)", got.Upvotes, got.Downvotes, got.Score)
	}

	// 记录还是一条，类型已翻转
	var votes []models.Vote
	db.DB.Where("post_id = ?", post.ID).Find(&votes)
	if len(votes) != 1 {
		t.Fatalf("Expected 1 vote record, got %d", len(votes))
	}
	if votes[0].VoteType != models.VoteDown {
		t.Errorf("Expected vote_type down, got %s", votes[0].VoteType)
	}
}

func TestCastPostVoteRemove(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	voter := createTestUser(t, "voter")
	community := createTestCommunity(t, "general")
	post := createTestPost(t, community, author, "hello")

	// 没投过票时 remove 是空操作
	result, err := CastPostVote(voter, post, models.VoteRemove)
	if err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}
	if result.ScoreDelta != 0 {
		t.Errorf("Expected scoreDelta 0, got %d", result.ScoreDelta)
	}
	if result.Vote != nil {
		t.Errorf("Expected nil vote, got %v", *result.Vote)
	}

	// up 然后 remove，回到原点
	if _, err := CastPostVote(voter, post, models.VoteUp); err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}
	result, err = CastPostVote(voter, post, models.VoteRemove)
	if err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}
	if result.ScoreDelta != -1 {
		t.Errorf("Expected scoreDelta -1, got %d", result.ScoreDelta)
	}

	got := reloadPost(t, post.ID)
	if got.Upvotes != 0 || got.Downvotes != 0 || got.Score != 0 {
		t.Errorf("Expected counters reset, got (%d, %d, %d)", got.Upvotes, got.Downvotes, got.Score)
	}
	var count int64
	db.DB.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected vote record removed, got %d", count)
	}
}

func TestCastPostVoteInvalid(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	voter := createTestUser(t, "voter")
	community := createTestCommunity(t, "general")
	post := createTestPost(t, community, author, "hello")

	if _, err := CastPostVote(voter, post, "sideways"); err != ErrInvalidVote {
		t.Errorf("Expected ErrInvalidVote, got %v", err)
	}
}

func TestCastCommentVoteLedgerConsistency(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	community := createTestCommunity(t, "general")
	post := createTestPost(t, community, author, "hello")
	comment := createTestComment(t, post, author, nil, "first")

	// 多个用户混合投票后，计数应等于票记录的聚合
	voters := []*models.User{
		createTestUser(t, "v1"),
		createTestUser(t, "v2"),
		createTestUser(t, "v3"),
	}
	decisions := []string{models.VoteUp, models.VoteUp, models.VoteDown}
	for i, v := range voters {
		if _, err := CastCommentVote(v, comment, decisions[i]); err != nil {
			t.Fatalf("CastCommentVote failed: %v", err)
		}
	}
	// v2 反悔
	if _, err := CastCommentVote(voters[1], comment, models.VoteRemove); err != nil {
		t.Fatalf("CastCommentVote failed: %v", err)
	}

	var got models.Comment
	if err := db.DB.First(&got, comment.ID).Error; err != nil {
		t.Fatalf("Failed to reload comment: %v", err)
	}
	var ups, downs int64
	db.DB.Model(&models.Vote{}).Where("comment_id = ? AND vote_type = ?", comment.ID, models.VoteUp).Count(&ups)
	db.DB.Model(&models.Vote{}).Where("comment_id = ? AND vote_type = ?", comment.ID, models.VoteDown).Count(&downs)

	if got.Upvotes != int(ups) || got.Downvotes != int(downs) {
		t.Errorf("Counters (%d, %d) diverge from ledger (%d, %d)", got.Upvotes, got.Downvotes, ups, downs)
	}
	if got.Score != got.Upvotes-got.Downvotes {
		t.Errorf("Expected score %d, got %d", got.Upvotes-got.Downvotes, got.Score)
	}
}

func TestVoteLedgerUniquePerPair(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	voter := createTestUser(t, "voter")
	other := createTestUser(t, "other")
	community := createTestCommunity(t, "general")
	post := createTestPost(t, community, author, "hello")
	comment := createTestComment(t, post, author, nil, "first")

	// 唯一索引在库层面挡住同一 (用户, 帖子) 的第二条记录，
	// 并发下两次首投也只能落库一条
	first := models.Vote{UserID: voter.ID, PostID: &post.ID, VoteType: models.VoteUp}
	if err := db.DB.Create(&first).Error; err != nil {
		t.Fatalf("First vote insert failed: %v", err)
	}
	dup := models.Vote{UserID: voter.ID, PostID: &post.ID, VoteType: models.VoteDown}
	err := db.DB.Create(&dup).Error
	if err == nil {
		t.Fatal("Expected duplicate post vote insert to fail")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Expected ErrDuplicatedKey, got %v", err)
	}

	// 评论侧同理
	cFirst := models.Vote{UserID: voter.ID, CommentID: &comment.ID, VoteType: models.VoteUp}
	if err := db.DB.Create(&cFirst).Error; err != nil {
		t.Fatalf("First comment vote insert failed: %v", err)
	}
	cDup := models.Vote{UserID: voter.ID, CommentID: &comment.ID, VoteType: models.VoteUp}
	if err := db.DB.Create(&cDup).Error; err == nil {
		t.Fatal("Expected duplicate comment vote insert to fail")
	}

	// 不同用户、不同内容互不影响
	otherVote := models.Vote{UserID: other.ID, PostID: &post.ID, VoteType: models.VoteUp}
	if err := db.DB.Create(&otherVote).Error; err != nil {
		t.Errorf("Vote by another user should succeed: %v", err)
	}

	// 输掉竞争的一次按已投票处理，不再动计数器
	result, err := CastPostVote(voter, post, models.VoteDown)
	if err != nil {
		t.Fatalf("CastPostVote failed: %v", err)
	}
	if result.ScoreDelta != -2 {
		// voter 已有 up 记录，这里走正常的 up→down 迁移
		t.Errorf("Expected transition delta -2, got %d", result.ScoreDelta)
	}
	var count int64
	db.DB.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", voter.ID, post.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 ledger row for the pair, got %d", count)
	}
}

func TestReconcilerRecount(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	community := createTestCommunity(t, "general")
	post := createTestPost(t, community, author, "hello")

	// 人为制造漂移
	db.DB.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumns(map[string]interface{}{"upvotes": 99, "downvotes": 99, "score": 0})
	up := models.VoteUp
	db.DB.Create(&models.Vote{UserID: author.ID, PostID: &post.ID, VoteType: up})

	r := &Reconciler{}
	r.Recount(ContentRef{Kind: ContentKindPost, ID: post.ID})

	got := reloadPost(t, post.ID)
	if got.Upvotes != 1 || got.Downvotes != 0 || got.Score != 1 {
		t.Errorf("Expected recount to (1, 0, 1), got (%d, %d, %d)", got.Upvotes, got.Downvotes, got.Score)
	}
}
