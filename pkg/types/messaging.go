package types

import (
	"bytes"
	"net/netip"
)

// ============================================================================
//                              协议消息
// ============================================================================

// InterNodeMessage 节点间消息
type InterNodeMessage struct {
	// Type 消息类型
	Type InterNodeMessageType

	// Payload 按类型编码的负载
	Payload []byte

	// LocalOnly 为 true 时接收方只在本地应用，不再转发
	LocalOnly bool

	// Tag 关联的任务标签
	Tag string
}

// ClientMessage 客户端请求
type ClientMessage struct {
	// Type 消息类型
	Type ClientMessageType

	// Payload 任务负载
	Payload []byte

	// Tag 任务标签
	Tag string

	// Priority 任务优先级
	Priority QueuePriority
}

// ClientResponse 节点对客户端请求的应答
type ClientResponse struct {
	// Tag 对应请求的任务标签
	Tag string

	// Status 应答状态
	Status ResponseStatus

	// Payload 结果负载（仅 StatusOK）
	Payload []byte

	// Source 产出结果的节点
	Source netip.Addr

	// Error 拒绝或失败原因
	Error string
}

// DiscoveryMessage 发现协议消息
type DiscoveryMessage struct {
	// Type 消息类型
	Type BroadcastMessageType

	// Endpoint 发送方地址
	Endpoint netip.AddrPort
}

// ============================================================================
//                              全量同步快照
// ============================================================================

// CacheSnapshot 结果缓存的全量快照
type CacheSnapshot map[string]ResultEntry

// Clone 返回深拷贝
func (s CacheSnapshot) Clone() CacheSnapshot {
	out := make(CacheSnapshot, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// QueueSnapshot 工作队列的全量快照
type QueueSnapshot []Task

// Clone 返回深拷贝
func (s QueueSnapshot) Clone() QueueSnapshot {
	out := make(QueueSnapshot, len(s))
	for i, t := range s {
		out[i] = t.Clone()
	}
	return out
}

// Equal 比较两个结果是否相同
func (r ResultEntry) Equal(o ResultEntry) bool {
	return r.Source == o.Source && r.Error == o.Error && bytes.Equal(r.Payload, o.Payload)
}
