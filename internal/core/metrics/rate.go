package metrics

import (
	"sync"
	"time"
)

// windowSeconds 速率窗口长度
const windowSeconds = 60

// RateMeter 滑动窗口速率计算器
//
// 使用 60 个 1 秒桶，Rate 返回最近一分钟的平均每秒字节数。
type RateMeter struct {
	mu      sync.Mutex
	buckets [windowSeconds]int64
	head    int
	headSec int64

	now func() time.Time
}

// NewRateMeter 创建速率计算器
func NewRateMeter() *RateMeter {
	return newRateMeterWithClock(time.Now)
}

func newRateMeterWithClock(now func() time.Time) *RateMeter {
	return &RateMeter{now: now, headSec: now().Unix()}
}

// advance 把 head 推进到当前秒，清空经过的桶，调用方持有锁
func (r *RateMeter) advance() {
	sec := r.now().Unix()
	elapsed := sec - r.headSec
	if elapsed <= 0 {
		return
	}
	if elapsed >= windowSeconds {
		r.buckets = [windowSeconds]int64{}
	} else {
		for i := int64(0); i < elapsed; i++ {
			r.head = (r.head + 1) % windowSeconds
			r.buckets[r.head] = 0
		}
	}
	r.headSec = sec
}

// Add 记录字节数
func (r *RateMeter) Add(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()
	r.buckets[r.head] += n
}

// Rate 返回窗口内平均每秒字节数
func (r *RateMeter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()

	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return float64(total) / windowSeconds
}

// Reset 清空窗口
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = [windowSeconds]int64{}
	r.head = 0
	r.headSec = r.now().Unix()
}
