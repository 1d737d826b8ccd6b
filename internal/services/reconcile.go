package services

import (
	"log"
	"sync"
	"time"

	"banyan/internal/db"
	"banyan/internal/models"
)

// 内容类型标识，Reconciler 队列用
const (
	ContentKindPost    = "post"
	ContentKindComment = "comment"
)

// ContentRef 待对账的内容引用
type ContentRef struct {
	Kind string
	ID   uint
}

// Reconciler 提供异步对账服务：投票记录和内容上的聚合计数器分两步写入，
// 并发竞争会让计数器漂移，这里周期性地按 votes 表重算计数器纠正偏差
type Reconciler struct {
	queue   chan ContentRef // 待对账的内容队列
	pending map[ContentRef]bool
	mu      sync.Mutex
}

var (
	reconciler     *Reconciler
	reconcilerOnce sync.Once
)

// GetReconciler 获取单例对账服务
func GetReconciler() *Reconciler {
	reconcilerOnce.Do(func() {
		reconciler = &Reconciler{
			queue:   make(chan ContentRef, 1000), // 缓冲队列，防止阻塞
			pending: make(map[ContentRef]bool),
		}
		// 启动后台 worker
		go reconciler.worker()
	})
	return reconciler
}

// Schedule 将内容加入对账队列（异步）
// 使用去重机制避免短时间内重复处理同一内容
func (s *Reconciler) Schedule(kind string, id uint) {
	ref := ContentRef{Kind: kind, ID: id}

	s.mu.Lock()
	if s.pending[ref] {
		// 已在队列中，跳过
		s.mu.Unlock()
		return
	}
	s.pending[ref] = true
	s.mu.Unlock()

	// 非阻塞发送到队列
	select {
	case s.queue <- ref:
		// 成功加入队列
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, ref)
		s.mu.Unlock()
		log.Printf("对账队列已满，跳过 %s %d", kind, id)
	}
}

// worker 后台处理队列中的对账请求
func (s *Reconciler) worker() {
	// 批量处理：收集一批请求后统一处理
	batch := make([]ContentRef, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond) // 每 500ms 处理一批
	defer ticker.Stop()

	for {
		select {
		case ref := <-s.queue:
			batch = append(batch, ref)
			// 如果达到批量大小，立即处理
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			// 定时处理剩余的
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Reconciler) processBatch(refs []ContentRef) {
	for _, ref := range refs {
		s.Recount(ref)

		// 清除 pending 状态
		s.mu.Lock()
		delete(s.pending, ref)
		s.mu.Unlock()
	}
}

// Recount 按 votes 表重算单个内容的计数器并整值回写。
// 这是唯一一处整值回写 score 的地方，写入的值就是账本的权威聚合
func (s *Reconciler) Recount(ref ContentRef) {
	column := "post_id"
	if ref.Kind == ContentKindComment {
		column = "comment_id"
	}

	var upvotes int64
	db.DB.Model(&models.Vote{}).Where(column+" = ? AND vote_type = ?", ref.ID, models.VoteUp).Count(&upvotes)

	var downvotes int64
	db.DB.Model(&models.Vote{}).Where(column+" = ? AND vote_type = ?", ref.ID, models.VoteDown).Count(&downvotes)

	values := map[string]interface{}{
		"upvotes":   upvotes,
		"downvotes": downvotes,
		"score":     upvotes - downvotes,
	}

	var err error
	if ref.Kind == ContentKindComment {
		err = db.DB.Model(&models.Comment{}).Where("id = ?", ref.ID).UpdateColumns(values).Error
	} else {
		err = db.DB.Model(&models.Post{}).Where("id = ?", ref.ID).UpdateColumns(values).Error
	}
	if err != nil {
		log.Printf("对账失败 %s %d: %v", ref.Kind, ref.ID, err)
	}
}

// StartScheduledReconcile 启动定时全量对账任务（每天凌晨 3 点执行）
func (s *Reconciler) StartScheduledReconcile() {
	go func() {
		for {
			// 计算到下一个凌晨 3 点的时间
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			log.Println("开始定时对账...")
			s.reconcileHotContent()
			log.Println("定时对账完成")
		}
	}()
}

// reconcileHotContent 对最近 7 天的帖子、其评论，以及分数最高的 30 篇帖子对账
func (s *Reconciler) reconcileHotContent() {
	processed := make(map[uint]bool)
	count := 0

	// 1. 处理最近 7 天的帖子
	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var recentPosts []models.Post
	db.DB.Where("created_at >= ?", sevenDaysAgo).Select("id").Find(&recentPosts)
	for _, p := range recentPosts {
		s.Recount(ContentRef{Kind: ContentKindPost, ID: p.ID})
		processed[p.ID] = true
		count++
	}

	// 2. 处理分数最高的 30 篇帖子（跳过已处理的）
	var topPosts []models.Post
	db.DB.Order("score DESC").Limit(30).Select("id").Find(&topPosts)
	for _, p := range topPosts {
		if !processed[p.ID] {
			s.Recount(ContentRef{Kind: ContentKindPost, ID: p.ID})
			count++
		}
	}

	// 3. 处理最近 7 天的评论
	var recentComments []models.Comment
	db.DB.Where("created_at >= ?", sevenDaysAgo).Select("id").Find(&recentComments)
	for _, c := range recentComments {
		s.Recount(ContentRef{Kind: ContentKindComment, ID: c.ID})
		count++
	}

	log.Printf("本次对账 %d 条内容", count)
}
