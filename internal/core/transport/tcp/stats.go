package tcp

import "sync/atomic"

// Stats 套接字流量快照
type Stats struct {
	MessagesIn  int64
	MessagesOut int64
	BytesIn     int64
	BytesOut    int64
}

type counters struct {
	messagesIn  atomic.Int64
	messagesOut atomic.Int64
	bytesIn     atomic.Int64
	bytesOut    atomic.Int64

	reporter Reporter
}

func (c *counters) recordSend(n int) {
	c.messagesOut.Add(1)
	c.bytesOut.Add(int64(n))
	if c.reporter != nil {
		c.reporter.LogSentMessage(int64(n))
	}
}

func (c *counters) recordRecv(n int) {
	c.bytesIn.Add(int64(n))
	if c.reporter != nil {
		c.reporter.LogRecvMessage(int64(n))
	}
}

func (c *counters) recordMessage() {
	c.messagesIn.Add(1)
}

func (c *counters) snapshot() Stats {
	return Stats{
		MessagesIn:  c.messagesIn.Load(),
		MessagesOut: c.messagesOut.Load(),
		BytesIn:     c.bytesIn.Load(),
		BytesOut:    c.bytesOut.Load(),
	}
}
