package node

import (
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-tasknode/internal/core/cache"
	"github.com/dep2p/go-tasknode/internal/core/transport/tcp"
	"github.com/dep2p/go-tasknode/pkg/types"
)

// handleClient 客户端协议入口，应答写回同一连接
func (n *Node) handleClient(in tcp.Inbound) {
	if !n.accepting.Load() {
		return
	}
	msg, err := n.codec.DecodeClient(in.Payload)
	if err != nil {
		logger.Warn("丢弃无法解码的客户端消息", "from", in.Source, "err", err)
		n.reply(in, types.ClientResponse{Status: types.StatusRejected, Error: err.Error()})
		return
	}
	n.metrics.ClientRequest(msg.Type)

	switch msg.Type {
	case types.ClientNewTask:
		n.reply(in, n.newTask(msg, in))
	case types.ClientFetchResult:
		n.reply(in, n.fetchResult(msg.Tag))
	case types.ClientTimeoutPrevention:
	default:
		n.reply(in, types.ClientResponse{
			Tag:    msg.Tag,
			Status: types.StatusRejected,
			Error:  fmt.Sprintf("unsupported message type %s", msg.Type),
		})
	}
}

func (n *Node) reply(in tcp.Inbound, resp types.ClientResponse) {
	if in.Conn == nil {
		return
	}
	if err := in.Conn.Send(n.codec.EncodeResponse(resp)); err != nil {
		logger.Debug("应答客户端失败", "client", in.Source, "err", err)
	}
}

// newTask 接收客户端任务
//
// 入队时 notify=true：队列订阅者复制任务并唤醒本地 worker。
func (n *Node) newTask(msg types.ClientMessage, in tcp.Inbound) types.ClientResponse {
	resp := types.ClientResponse{Tag: msg.Tag}

	priority := msg.Priority
	if priority == types.PriorityNone {
		priority = types.PriorityNormal
	}
	task := types.Task{
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
		Tag:       msg.Tag,
		State:     types.StateRunnable,
		Payload:   msg.Payload,
		Source:    in.Source.Addr(),
	}

	err := task.Validate()
	if err == nil && n.cache.Contains(task.Tag) {
		err = fmt.Errorf("%w: %s", ErrDuplicateTag, task.Tag)
	}
	if err == nil {
		err = n.queue.Enqueue(task, true)
	}
	if err != nil {
		resp.Status = types.StatusRejected
		resp.Error = err.Error()
		logger.Debug("拒绝客户端任务", "tag", msg.Tag, "err", err)
		return resp
	}

	n.metrics.TaskEnqueued()
	resp.Status = types.StatusAccepted
	return resp
}

// fetchResult 查询结果：OK / Failed / Pending / NotFound
func (n *Node) fetchResult(tag string) types.ClientResponse {
	resp := types.ClientResponse{Tag: tag}

	v, err := n.cache.Read(tag)
	switch {
	case err == nil && v.Failed():
		resp.Status = types.StatusFailed
		resp.Error = v.Error
		resp.Source = v.Source
	case err == nil:
		resp.Status = types.StatusOK
		resp.Payload = v.Payload
		resp.Source = v.Source
	case errors.Is(err, cache.ErrNotFound) && n.queue.Contains(tag):
		resp.Status = types.StatusPending
	default:
		resp.Status = types.StatusNotFound
	}
	return resp
}
