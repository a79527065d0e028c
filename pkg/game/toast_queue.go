package game

import (
	"math"
	"sort"

	"github.com/gonewx/magorbit/pkg/config"
)

// ToastItem 待显示的提示
type ToastItem struct {
	Key     string
	Message string
	Tone    string
	Values  map[string]string
}

// ActiveToast 正在显示的提示
type ActiveToast struct {
	ToastItem
	HideAt float64 // 毫秒
}

// TickResult Tick 的结果
type TickResult struct {
	Changed bool         // 显示内容是否变化
	Active  *ActiveToast // 当前显示的提示，可为 nil
}

type queuedToast struct {
	item     ToastItem
	priority int
	seq      int
}

// ToastQueue 提示优先级队列
//
// 同优先级按入队顺序；两次显示之间至少间隔 minGap；
// 同一键在去抖窗口内的重复入队直接丢弃。
type ToastQueue struct {
	cfg            config.ToastConfig
	queue          []queuedToast
	active         *ActiveToast
	nextEligibleAt float64
	lastEnqueueAt  map[string]float64
	seq            int
}

// NewToastQueue 创建提示队列
func NewToastQueue(cfg config.ToastConfig) *ToastQueue {
	return &ToastQueue{
		cfg:           cfg,
		lastEnqueueAt: make(map[string]float64),
	}
}

// Enqueue 入队
//
// 参数：
//   - item: 提示内容
//   - nowMs: 当前时间（毫秒）
//
// 返回：
//   - bool: 被去抖丢弃时为 false
func (q *ToastQueue) Enqueue(item ToastItem, nowMs float64) bool {
	debounce := q.cfg.DebounceMs[item.Key]
	last, ok := q.lastEnqueueAt[item.Key]
	if !ok {
		last = math.Inf(-1)
	}
	if debounce > 0 && nowMs-last < debounce {
		return false
	}

	q.lastEnqueueAt[item.Key] = nowMs
	q.queue = append(q.queue, queuedToast{
		item:     item,
		priority: q.cfg.PriorityFor(item.Key),
		seq:      q.seq,
	})
	q.seq++

	sort.SliceStable(q.queue, func(i, j int) bool {
		if q.queue[i].priority != q.queue[j].priority {
			return q.queue[i].priority > q.queue[j].priority
		}
		return q.queue[i].seq < q.queue[j].seq
	})
	return true
}

// Tick 唯一的时间驱动入口：先让到期的提示消失，
// 然后仅在无提示显示且已过最小间隔时提升下一条
func (q *ToastQueue) Tick(nowMs float64) TickResult {
	changed := false

	if q.active != nil && nowMs >= q.active.HideAt {
		q.active = nil
		changed = true
	}

	if q.active == nil && len(q.queue) > 0 && nowMs >= q.nextEligibleAt {
		next := q.queue[0]
		q.queue = q.queue[1:]
		q.active = &ActiveToast{ToastItem: next.item, HideAt: nowMs + q.cfg.DurationMs}
		q.nextEligibleAt = nowMs + q.cfg.MinGapMs
		changed = true
	}

	return TickResult{Changed: changed, Active: q.active}
}

// Pending 排队中的提示数量
func (q *ToastQueue) Pending() int {
	return len(q.queue)
}

// Reset 清空队列、当前提示与去抖记录
func (q *ToastQueue) Reset() {
	q.queue = nil
	q.active = nil
	q.nextEligibleAt = 0
	q.lastEnqueueAt = make(map[string]float64)
}
