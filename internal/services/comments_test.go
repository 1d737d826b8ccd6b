package services

import (
	"testing"

	"banyan/internal/models"
)

func flatComment(id uint, parentID *uint) models.Comment {
	return models.Comment{ID: id, ParentID: parentID}
}

func TestBuildCommentTree(t *testing.T) {
	one := uint(1)

	// c1(顶层) ← c2，c3(顶层)
	comments := []models.Comment{
		flatComment(1, nil),
		flatComment(2, &one),
		flatComment(3, nil),
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 2 {
		t.Fatalf("Expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 3 {
		t.Errorf("Expected roots [1, 3], got [%d, %d]", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Replies) != 1 || roots[0].Replies[0].ID != 2 {
		t.Errorf("Expected comment 2 nested under comment 1")
	}
	if len(roots[1].Replies) != 0 {
		t.Errorf("Expected comment 3 to have no replies")
	}
}

func TestBuildCommentTreePreservesOrder(t *testing.T) {
	one := uint(1)

	// 兄弟节点顺序跟输入一致
	comments := []models.Comment{
		flatComment(1, nil),
		flatComment(4, &one),
		flatComment(2, &one),
		flatComment(3, &one),
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 1 {
		t.Fatalf("Expected 1 root, got %d", len(roots))
	}
	replies := roots[0].Replies
	if len(replies) != 3 {
		t.Fatalf("Expected 3 replies, got %d", len(replies))
	}
	expected := []uint{4, 2, 3}
	for i, want := range expected {
		if replies[i].ID != want {
			t.Errorf("Reply %d: expected id %d, got %d", i, want, replies[i].ID)
		}
	}
}

func TestBuildCommentTreeOrphans(t *testing.T) {
	missing := uint(99)

	// 父评论不在列表里（被过滤掉），孤儿提升为根而不是丢弃
	comments := []models.Comment{
		flatComment(1, nil),
		flatComment(2, &missing),
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 2 {
		t.Fatalf("Expected orphan promoted to root, got %d roots", len(roots))
	}
	if CountTreeNodes(roots) != 2 {
		t.Errorf("Expected all comments kept, got %d", CountTreeNodes(roots))
	}
}

func TestBuildCommentTreeDeepNesting(t *testing.T) {
	one, two, three := uint(1), uint(2), uint(3)

	comments := []models.Comment{
		flatComment(1, nil),
		flatComment(2, &one),
		flatComment(3, &two),
		flatComment(4, &three),
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 1 {
		t.Fatalf("Expected 1 root, got %d", len(roots))
	}
	node := roots[0]
	for depth := 1; depth <= 3; depth++ {
		if len(node.Replies) != 1 {
			t.Fatalf("Depth %d: expected 1 reply, got %d", depth, len(node.Replies))
		}
		node = node.Replies[0]
	}
	if node.ID != 4 {
		t.Errorf("Expected deepest node 4, got %d", node.ID)
	}
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	roots := BuildCommentTree(nil)
	if len(roots) != 0 {
		t.Errorf("Expected empty tree, got %d roots", len(roots))
	}
}
