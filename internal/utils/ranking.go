package utils

import (
	"math"
	"time"
)

// 排序公式集合。全部为纯函数：同样的计数器 + 时间输入永远得到同样的分数，
// 读路径按需重算，不落库。

const rankGravity = 1.5 // 时间重力

// ageHours 发布至今的小时数，负数按 0 处理
func ageHours(createdAt, now time.Time) float64 {
	h := now.Sub(createdAt).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// HotScore 热度分: score / (ageHours + 2)^1.5
// 新内容分母接近 2^1.5，随时间衰减
func HotScore(score int, createdAt, now time.Time) float64 {
	return float64(score) / math.Pow(ageHours(createdAt, now)+2.0, rankGravity)
}

// ControversyPost 帖子争议分: min(up, down) * (up + down)
// 票数大且两边接近的帖子得分高
func ControversyPost(upvotes, downvotes int) float64 {
	lo := upvotes
	if downvotes < lo {
		lo = downvotes
	}
	return float64(lo) * float64(upvotes+downvotes)
}

// ControversyComment 评论争议分: min(up, down)
// 注意和帖子版公式不同，这是两处独立演化的调用点，保持各自的算法
func ControversyComment(upvotes, downvotes int) float64 {
	if upvotes < downvotes {
		return float64(upvotes)
	}
	return float64(downvotes)
}

// BestScore 评论默认排序: (up + 1) / (up + down + 1)
// 拉普拉斯平滑的好评率，不是 Wilson 置信区间。零票评论得 1.0，
// 全好评的少票评论会排在多票但有差评的前面
func BestScore(upvotes, downvotes int) float64 {
	return float64(upvotes+1) / float64(upvotes+downvotes+1)
}

// TrendingScore 趋势分: (score + comments*2 + views*0.1) / (ageHours + 2)^1.5
func TrendingScore(score, commentCount, viewCount int, createdAt, now time.Time) float64 {
	engagement := float64(score) + float64(commentCount)*2.0 + float64(viewCount)*0.1
	return engagement / math.Pow(ageHours(createdAt, now)+2.0, rankGravity)
}

// XP 经验值: karma*10 + posts*100 + comments*50 + badges*500 + streak*20
func XP(karma, postCount, commentCount, badgeCount, streak int) int {
	return karma*10 + postCount*100 + commentCount*50 + badgeCount*500 + streak*20
}

// LevelForXP 等级曲线: floor(sqrt(xp/100)) + 1
func LevelForXP(xp int) int {
	return int(math.Floor(math.Sqrt(float64(xp)/100.0))) + 1
}

// LevelProgress 当前等级内的进度，区间 [(level-1)^2*100, level^2*100)
func LevelProgress(xp, level int) (progress, needed int) {
	floor := (level - 1) * (level - 1) * 100
	ceil := level * level * 100
	return xp - floor, ceil - floor
}

// LevelTitle 等级称号
type LevelTitle struct {
	Min   int
	Max   int
	Title string
	Color string
}

// 称号区间连续不重叠，首个包含 level 的区间生效
var levelTitles = []LevelTitle{
	{1, 5, "Newcomer", "#808080"},
	{6, 10, "Member", "#4169E1"},
	{11, 20, "Regular", "#32CD32"},
	{21, 35, "Veteran", "#FFD700"},
	{36, 50, "Elite", "#FF4500"},
	{51, 75, "Master", "#9370DB"},
	{76, 100, "Legend", "#FF1493"},
	{101, math.MaxInt32, "Mythic", "#00CED1"},
}

// TitleForLevel 返回等级对应的称号，低于 1 级按第一档处理
func TitleForLevel(level int) LevelTitle {
	for _, t := range levelTitles {
		if level >= t.Min && level <= t.Max {
			return t
		}
	}
	return levelTitles[0]
}
