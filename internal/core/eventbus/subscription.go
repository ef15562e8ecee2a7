package eventbus

import "sync"

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 一个订阅者的邮箱与投递循环
type Subscription[T any] struct {
	feed *Feed[T]
	obs  Observer[T]

	mu      sync.Mutex
	cond    *sync.Cond
	pending []T
	closing bool

	done      chan struct{}
	closeOnce sync.Once
}

// Close 取消订阅
//
// Close 是并发安全的，可以多次调用，不会阻塞。关闭后：
//  1. 不再接收新事件
//  2. 邮箱中剩余事件按序投递
//  3. 回调 OnCompleted
//  4. 从注册表移除，Done 关闭
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closing = true
		s.cond.Signal()
		s.mu.Unlock()
	})
}

// Done 在 OnCompleted 返回且订阅已移除后关闭
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Pending 返回邮箱中尚未投递的事件数
func (s *Subscription[T]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Subscription[T]) push(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return false
	}
	s.pending = append(s.pending, v)
	if n := len(s.pending); n%backlogWarnStep == 0 {
		logger.Warn("订阅者积压", "feed", s.feed.name, "pending", n)
	}
	s.cond.Signal()
	return true
}

func (s *Subscription[T]) run() {
	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.closing {
			s.cond.Wait()
		}
		if len(s.pending) == 0 {
			s.mu.Unlock()
			break
		}
		v := s.pending[0]
		var zero T
		s.pending[0] = zero
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.obs.OnNext(v)
	}

	s.obs.OnCompleted()
	s.feed.remove(s)
	close(s.done)
}
