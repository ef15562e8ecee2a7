package metrics

import (
	"sync/atomic"
)

// BandwidthCounter 流量计数器
//
// 由节点的全部 TCP 套接字共享，实现 tcp.Reporter。
type BandwidthCounter struct {
	totalIn  atomic.Int64
	totalOut atomic.Int64

	rateIn  *RateMeter
	rateOut *RateMeter
}

// NewBandwidthCounter 创建流量计数器
func NewBandwidthCounter() *BandwidthCounter {
	return &BandwidthCounter{
		rateIn:  NewRateMeter(),
		rateOut: NewRateMeter(),
	}
}

// LogSentMessage 记录出站字节
func (bwc *BandwidthCounter) LogSentMessage(size int64) {
	bwc.totalOut.Add(size)
	bwc.rateOut.Add(size)
}

// LogRecvMessage 记录入站字节
func (bwc *BandwidthCounter) LogRecvMessage(size int64) {
	bwc.totalIn.Add(size)
	bwc.rateIn.Add(size)
}

// Totals 返回流量快照
func (bwc *BandwidthCounter) Totals() Stats {
	return Stats{
		TotalIn:  bwc.totalIn.Load(),
		TotalOut: bwc.totalOut.Load(),
		RateIn:   bwc.rateIn.Rate(),
		RateOut:  bwc.rateOut.Rate(),
	}
}

// Reset 清零
func (bwc *BandwidthCounter) Reset() {
	bwc.totalIn.Store(0)
	bwc.totalOut.Store(0)
	bwc.rateIn.Reset()
	bwc.rateOut.Reset()
}
