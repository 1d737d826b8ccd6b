package services

import (
	"banyan/internal/models"
)

// CommentNode 评论树节点，Replies 按输入顺序排列
type CommentNode struct {
	models.Comment
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentTree 把平铺的评论列表组装成树。
// 两遍扫描：先建节点索引，再挂父子关系。
// 输入顺序决定兄弟节点的顺序，排序在调用方做。
// 父节点缺失（被过滤或数据异常）的评论提升为根节点，不丢弃
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{
			Comment: comments[i],
			Replies: []*CommentNode{},
		}
	}

	roots := make([]*CommentNode, 0)
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentID != nil {
			if parent, ok := nodes[*comments[i].ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// CountTreeNodes 统计树里的节点总数
func CountTreeNodes(roots []*CommentNode) int {
	total := 0
	for _, r := range roots {
		total += 1 + CountTreeNodes(r.Replies)
	}
	return total
}
