package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/dep2p/go-tasknode/internal/core/eventbus"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
	"github.com/dep2p/go-tasknode/pkg/types"
)

var logger = log.Logger("core/queue")

// entry 队列元素，seq 保证同优先级同时间的任务按入队顺序出队
type entry struct {
	task types.Task
	seq  uint64
}

func (e *entry) before(o *entry) bool {
	if e.task.Priority != o.task.Priority || !e.task.CreatedAt.Equal(o.task.CreatedAt) {
		return e.task.Before(o.task)
	}
	return e.seq < o.seq
}

// Queue 可观察的优先级工作队列
type Queue struct {
	mu      sync.Mutex
	entries []*entry
	seq     uint64

	feed *eventbus.Feed[Event]
}

// New 创建空队列
func New() *Queue {
	return &Queue{
		feed: eventbus.NewFeed[Event]("queue"),
	}
}

// ============================================================================
//                              写操作
// ============================================================================

// Enqueue 入队
//
// State 为 None 时按 Runnable 入队，CreatedAt 为零值时取当前 UTC 时间。
// notify 为 true 时异步通知订阅者。
func (q *Queue) Enqueue(task types.Task, notify bool) error {
	if task.State == types.StateNone {
		task.State = types.StateRunnable
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if err := task.Validate(); err != nil {
		return err
	}
	task = task.Clone()

	q.mu.Lock()
	if q.indexLocked(task.Tag) >= 0 {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateTag, task.Tag)
	}
	q.seq++
	q.entries = append(q.entries, &entry{task: task, seq: q.seq})
	// 持锁发布：同一任务的事件按变更顺序进入邮箱
	if notify {
		q.feed.Publish(Event{Kind: EventEnqueued, Task: task.Clone()})
	}
	q.mu.Unlock()

	logger.Debug("任务入队", "tag", task.Tag, "priority", task.Priority, "notify", notify)
	return nil
}

// Dequeue 移除并返回下一个可运行任务
func (q *Queue) Dequeue() (types.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.selectLocked(nil)
	if i < 0 {
		return types.Task{}, ErrEmpty
	}
	t := q.entries[i].task
	q.removeAtLocked(i)
	return t, nil
}

// Claim 选中下一个满足 filter 的可运行任务并原地置为 Running
//
// 返回任务副本。状态变更会通知订阅者。
func (q *Queue) Claim(filter func(types.Task) bool) (types.Task, bool) {
	q.mu.Lock()
	i := q.selectLocked(filter)
	if i < 0 {
		q.mu.Unlock()
		return types.Task{}, false
	}
	e := q.entries[i]
	e.task.State = types.StateRunning
	t := e.task.Clone()
	q.feed.Publish(Event{Kind: EventStateChanged, Task: t.Clone()})
	q.mu.Unlock()

	return t, true
}

// ChangeState 修改第一个匹配标签的任务状态
//
// localOnly 为 false 时通知订阅者。
func (q *Queue) ChangeState(tag string, state types.QueuedProcessState, localOnly bool) error {
	if !state.IsValid() || state == types.StateNone {
		return types.ErrInvalidState
	}

	q.mu.Lock()
	i := q.indexLocked(tag)
	if i < 0 {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, tag)
	}
	q.entries[i].task.State = state
	if !localOnly {
		q.feed.Publish(Event{Kind: EventStateChanged, Task: q.entries[i].task.Clone()})
	}
	q.mu.Unlock()

	return nil
}

// Complete 将任务置为 Finished 并移出队列，通知订阅者
func (q *Queue) Complete(tag string) bool {
	q.mu.Lock()
	i := q.indexLocked(tag)
	if i < 0 {
		q.mu.Unlock()
		return false
	}
	t := q.entries[i].task
	t.State = types.StateFinished
	q.removeAtLocked(i)
	q.feed.Publish(Event{Kind: EventCompleted, Task: t})
	q.mu.Unlock()

	return true
}

// Remove 移除第一个满足条件的任务，不通知订阅者
func (q *Queue) Remove(match func(types.Task) bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if match(e.task) {
			q.removeAtLocked(i)
			return true
		}
	}
	return false
}

// RemoveTag 按标签移除任务，不通知订阅者
func (q *Queue) RemoveTag(tag string) bool {
	return q.Remove(func(t types.Task) bool { return t.Tag == tag })
}

// Replace 用快照整体替换队列内容，不通知订阅者
//
// 快照中非法或重复的任务被跳过，返回实际载入的数量。
func (q *Queue) Replace(snapshot []types.Task) int {
	entries := make([]*entry, 0, len(snapshot))
	seen := make(map[string]struct{}, len(snapshot))

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, t := range snapshot {
		if t.State == types.StateNone {
			t.State = types.StateRunnable
		}
		if err := t.Validate(); err != nil {
			logger.Warn("跳过非法快照任务", "tag", t.Tag, "err", err)
			continue
		}
		if _, dup := seen[t.Tag]; dup {
			continue
		}
		seen[t.Tag] = struct{}{}
		q.seq++
		entries = append(entries, &entry{task: t.Clone(), seq: q.seq})
	}
	q.entries = entries
	return len(entries)
}

// ============================================================================
//                              读操作
// ============================================================================

// PeekOrDefault 返回下一个可运行任务但不移除，没有时返回零值
func (q *Queue) PeekOrDefault() types.Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.selectLocked(nil)
	if i < 0 {
		return types.Task{}
	}
	return q.entries[i].task.Clone()
}

// Get 按标签查找任务
func (q *Queue) Get(tag string) (types.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexLocked(tag)
	if i < 0 {
		return types.Task{}, false
	}
	return q.entries[i].task.Clone(), true
}

// Contains 标签是否在队列中
func (q *Queue) Contains(tag string) bool {
	_, ok := q.Get(tag)
	return ok
}

// Len 返回队列长度（含所有状态）
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot 返回按出队顺序排列的全部任务副本
func (q *Queue) Snapshot() []types.Task {
	q.mu.Lock()
	ordered := make([]*entry, len(q.entries))
	copy(ordered, q.entries)
	q.mu.Unlock()

	sortEntries(ordered)
	out := make([]types.Task, len(ordered))
	for i, e := range ordered {
		out[i] = e.task.Clone()
	}
	return out
}

// ============================================================================
//                              订阅
// ============================================================================

// Subscribe 订阅队列事件
func (q *Queue) Subscribe(o eventbus.Observer[Event]) (*eventbus.Subscription[Event], error) {
	return q.feed.Subscribe(o)
}

// Close 结束所有订阅
func (q *Queue) Close() {
	q.feed.Close()
}

// ============================================================================
//                              内部方法
// ============================================================================

func (q *Queue) indexLocked(tag string) int {
	for i, e := range q.entries {
		if e.task.Tag == tag {
			return i
		}
	}
	return -1
}

// selectLocked 线性扫描选出最先应出队的 Runnable 任务
func (q *Queue) selectLocked(filter func(types.Task) bool) int {
	best := -1
	for i, e := range q.entries {
		if e.task.State != types.StateRunnable {
			continue
		}
		if filter != nil && !filter(e.task) {
			continue
		}
		if best < 0 || e.before(q.entries[best]) {
			best = i
		}
	}
	return best
}

func (q *Queue) removeAtLocked(i int) {
	copy(q.entries[i:], q.entries[i+1:])
	q.entries[len(q.entries)-1] = nil
	q.entries = q.entries[:len(q.entries)-1]
}
