package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/dep2p/go-tasknode/internal/core/eventbus"
	"github.com/dep2p/go-tasknode/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func task(tag string, p types.QueuePriority, offset time.Duration) types.Task {
	return types.Task{
		Tag:       tag,
		Priority:  p,
		CreatedAt: base.Add(offset),
		Payload:   []byte(tag),
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) OnNext(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) OnCompleted() {}

func (l *eventLog) snapshot() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func subscribe(t *testing.T, q *Queue) (*eventLog, *eventbus.Subscription[Event]) {
	t.Helper()
	l := &eventLog{}
	sub, err := q.Subscribe(l)
	require.NoError(t, err)
	return l, sub
}

func drain(t *testing.T, sub *eventbus.Subscription[Event]) {
	t.Helper()
	sub.Close()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not drain")
	}
}

// TestQueue_DequeueOrder 测试优先级降序、时间升序的出队顺序
func TestQueue_DequeueOrder(t *testing.T) {
	q := New()
	require.NoError(t, q.Enqueue(task("A", types.PriorityHigh, 10*time.Second), false))
	require.NoError(t, q.Enqueue(task("B", types.PriorityHighest, 20*time.Second), false))
	require.NoError(t, q.Enqueue(task("C", types.PriorityHigh, 5*time.Second), false))

	var order []string
	for {
		tk, err := q.Dequeue()
		if err != nil {
			assert.ErrorIs(t, err, ErrEmpty)
			break
		}
		order = append(order, tk.Tag)
	}
	assert.Equal(t, []string{"B", "C", "A"}, order)
}

func TestQueue_SameTimestampKeepsInsertionOrder(t *testing.T) {
	q := New()
	for _, tag := range []string{"x", "y", "z"} {
		require.NoError(t, q.Enqueue(task(tag, types.PriorityNormal, 0), false))
	}
	tk, _ := q.Dequeue()
	assert.Equal(t, "x", tk.Tag)
	tk, _ = q.Dequeue()
	assert.Equal(t, "y", tk.Tag)
}

// TestQueue_OnlyRunnableDequeued 测试非 Runnable 任务不会出队
func TestQueue_OnlyRunnableDequeued(t *testing.T) {
	q := New()
	require.NoError(t, q.Enqueue(task("run", types.PriorityHighest, 0), false))
	require.NoError(t, q.Enqueue(task("wait", types.PriorityLow, 0), false))
	require.NoError(t, q.ChangeState("run", types.StateRunning, true))

	assert.Equal(t, "wait", q.PeekOrDefault().Tag)
	tk, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "wait", tk.Tag)

	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 1, q.Len())
	assert.Empty(t, q.PeekOrDefault().Tag)
}

func TestQueue_EnqueueValidation(t *testing.T) {
	q := New()
	assert.ErrorIs(t, q.Enqueue(types.Task{Payload: []byte("p")}, false), types.ErrEmptyTag)
	assert.ErrorIs(t, q.Enqueue(types.Task{Tag: "t"}, false), types.ErrEmptyPayload)

	require.NoError(t, q.Enqueue(task("dup", types.PriorityNormal, 0), false))
	assert.ErrorIs(t, q.Enqueue(task("dup", types.PriorityHigh, 0), false), ErrDuplicateTag)

	tk, ok := q.Get("dup")
	require.True(t, ok)
	assert.Equal(t, types.StateRunnable, tk.State)
	assert.Equal(t, types.PriorityNormal, tk.Priority)
}

func TestQueue_EnqueueDefaultsTimestamp(t *testing.T) {
	q := New()
	require.NoError(t, q.Enqueue(types.Task{Tag: "t", Payload: []byte("p")}, false))
	tk, _ := q.Get("t")
	assert.False(t, tk.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, tk.CreatedAt.Location())
}

func TestQueue_ChangeState(t *testing.T) {
	q := New()
	assert.ErrorIs(t, q.ChangeState("missing", types.StateRunning, true), ErrNotFound)

	require.NoError(t, q.Enqueue(task("t", types.PriorityNormal, 0), false))
	assert.ErrorIs(t, q.ChangeState("t", types.QueuedProcessState(9), true), types.ErrInvalidState)
	assert.ErrorIs(t, q.ChangeState("t", types.StateNone, true), types.ErrInvalidState)

	require.NoError(t, q.ChangeState("t", types.StateFinished, true))
	tk, _ := q.Get("t")
	assert.Equal(t, types.StateFinished, tk.State)
}

// TestQueue_Notifications 测试 notify/localOnly 对通知的控制
func TestQueue_Notifications(t *testing.T) {
	q := New()
	l, sub := subscribe(t, q)

	require.NoError(t, q.Enqueue(task("silent", types.PriorityNormal, 0), false))
	require.NoError(t, q.Enqueue(task("loud", types.PriorityNormal, 0), true))
	require.NoError(t, q.ChangeState("loud", types.StateRunning, true))
	require.NoError(t, q.ChangeState("loud", types.StateRunnable, false))
	assert.True(t, q.RemoveTag("silent"))

	drain(t, sub)

	events := l.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, EventEnqueued, events[0].Kind)
	assert.Equal(t, "loud", events[0].Task.Tag)
	assert.Equal(t, EventStateChanged, events[1].Kind)
	assert.Equal(t, types.StateRunnable, events[1].Task.State)
}

// TestQueue_ClaimAndComplete 测试 worker 路径的事件顺序
func TestQueue_ClaimAndComplete(t *testing.T) {
	q := New()
	l, sub := subscribe(t, q)

	replica := task("replica", types.PriorityHighest, 0)
	replica.LocalOnly = true
	require.NoError(t, q.Enqueue(replica, false))
	require.NoError(t, q.Enqueue(task("own", types.PriorityLow, 0), true))

	tk, ok := q.Claim(func(t types.Task) bool { return !t.LocalOnly })
	require.True(t, ok)
	assert.Equal(t, "own", tk.Tag)
	assert.Equal(t, types.StateRunning, tk.State)

	_, ok = q.Claim(func(t types.Task) bool { return !t.LocalOnly })
	assert.False(t, ok)

	assert.True(t, q.Complete("own"))
	assert.False(t, q.Complete("own"))
	assert.Equal(t, 1, q.Len())

	drain(t, sub)
	events := l.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, []EventKind{EventEnqueued, EventStateChanged, EventCompleted},
		[]EventKind{events[0].Kind, events[1].Kind, events[2].Kind})
	assert.Equal(t, types.StateFinished, events[2].Task.State)
}

func TestQueue_SnapshotReplace(t *testing.T) {
	q := New()
	require.NoError(t, q.Enqueue(task("low", types.PriorityLow, 0), false))
	require.NoError(t, q.Enqueue(task("high", types.PriorityHigh, 0), false))

	snap := q.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "high", snap[0].Tag)

	snap[0].Payload[0] = 'X'
	tk, _ := q.Get("high")
	assert.Equal(t, "high", string(tk.Payload))

	other := New()
	require.NoError(t, other.Enqueue(task("gone", types.PriorityNormal, 0), false))
	n := other.Replace(append(snap, snap[0], types.Task{Tag: "bad"}))
	assert.Equal(t, 2, n)
	assert.False(t, other.Contains("gone"))
	assert.True(t, other.Contains("low"))
	assert.Equal(t, 2, other.Len())
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				tag := string(rune('a'+g)) + time.Duration(i).String()
				assert.NoError(t, q.Enqueue(task(tag, types.PriorityNormal, 0), true))
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 400, q.Len())
}

// TestQueue_EventOrderUnderConcurrentClaim 入队与认领并发时，每个任务的事件仍按变更顺序到达
func TestQueue_EventOrderUnderConcurrentClaim(t *testing.T) {
	const total = 200

	q := New()
	l, sub := subscribe(t, q)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				finished := done == total
				mu.Unlock()
				if finished {
					return
				}
				tk, ok := q.Claim(nil)
				if !ok {
					continue
				}
				assert.True(t, q.Complete(tk.Tag))
				mu.Lock()
				done++
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < total; i++ {
		tag := "t" + time.Duration(i).String()
		require.NoError(t, q.Enqueue(task(tag, types.PriorityNormal, 0), true))
	}
	wg.Wait()
	drain(t, sub)

	seen := make(map[string][]EventKind, total)
	for _, ev := range l.snapshot() {
		seen[ev.Task.Tag] = append(seen[ev.Task.Tag], ev.Kind)
	}
	require.Len(t, seen, total)
	for tag, kinds := range seen {
		assert.Equal(t, []EventKind{EventEnqueued, EventStateChanged, EventCompleted}, kinds, tag)
	}
}
