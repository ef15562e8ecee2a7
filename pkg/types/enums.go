package types

// 所有枚举的整数值都出现在线路上，节点间互通依赖这些取值，不得调整。

// ============================================================================
//                              QueuePriority - 队列优先级
// ============================================================================

// QueuePriority 任务在队列中的优先级，数值越大越先执行
type QueuePriority int32

const (
	// PriorityNone 未指定
	PriorityNone QueuePriority = iota
	// PriorityLowest 最低
	PriorityLowest
	// PriorityLow 低
	PriorityLow
	// PriorityNormal 普通
	PriorityNormal
	// PriorityHigh 高
	PriorityHigh
	// PriorityHighest 最高
	PriorityHighest
)

// String 返回优先级的字符串表示
func (p QueuePriority) String() string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	default:
		return "unknown"
	}
}

// IsValid 检查优先级是否在定义范围内
func (p QueuePriority) IsValid() bool {
	return p >= PriorityNone && p <= PriorityHighest
}

// ParsePriority 从字符串解析优先级
func ParsePriority(s string) (QueuePriority, error) {
	for p := PriorityNone; p <= PriorityHighest; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PriorityNone, ErrInvalidPriority
}

// ============================================================================
//                              QueuedProcessState - 任务状态
// ============================================================================

// QueuedProcessState 排队任务的生命周期状态
//
// 状态流转：Runnable → Running → Finished
type QueuedProcessState int32

const (
	// StateNone 未设置
	StateNone QueuedProcessState = iota
	// StateRunnable 可运行，等待出队
	StateRunnable
	// StateRunning 执行中
	StateRunning
	// StateFinished 已完成
	StateFinished
)

// String 返回状态的字符串表示
func (s QueuedProcessState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateRunnable:
		return "runnable"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// IsValid 检查状态是否在定义范围内
func (s QueuedProcessState) IsValid() bool {
	return s >= StateNone && s <= StateFinished
}

// ============================================================================
//                              ClientMessageType - 客户端消息类型
// ============================================================================

// ClientMessageType 客户端协议消息类型
type ClientMessageType int32

const (
	// ClientNone 空消息
	ClientNone ClientMessageType = iota
	// ClientNewTask 提交新任务
	ClientNewTask
	// ClientFetchResult 查询任务结果
	ClientFetchResult
	// ClientTimeoutPrevention 保活，不做处理
	ClientTimeoutPrevention
)

// String 返回消息类型的字符串表示
func (t ClientMessageType) String() string {
	switch t {
	case ClientNone:
		return "None"
	case ClientNewTask:
		return "NewTask"
	case ClientFetchResult:
		return "FetchResult"
	case ClientTimeoutPrevention:
		return "TimeoutPrevention"
	default:
		return "Unknown"
	}
}

// ============================================================================
//                              InterNodeMessageType - 节点间消息类型
// ============================================================================

// InterNodeMessageType 节点间协议消息类型
type InterNodeMessageType int32

const (
	// InterNodeNone 空消息
	InterNodeNone InterNodeMessageType = iota
	// InterNodeAddToCache 写入结果缓存
	InterNodeAddToCache
	// InterNodeAddToQueue 任务入队
	InterNodeAddToQueue
	// InterNodeRemoveFromCache 删除缓存项
	InterNodeRemoveFromCache
	// InterNodeRemoveFromQueue 任务出队
	InterNodeRemoveFromQueue
	// InterNodeChangeStateInQueue 修改队列中任务状态
	InterNodeChangeStateInQueue
	// InterNodeNewNodeDiscovered 发现新节点
	InterNodeNewNodeDiscovered
	// InterNodeFullCacheUpdateSent 请求全量缓存
	InterNodeFullCacheUpdateSent
	// InterNodeFullCacheUpdateReceived 全量缓存快照
	InterNodeFullCacheUpdateReceived
	// InterNodeFullQueueUpdateSent 请求全量队列
	InterNodeFullQueueUpdateSent
	// InterNodeFullQueueUpdateReceived 全量队列快照
	InterNodeFullQueueUpdateReceived
	// InterNodeStartUp 节点启动通知
	InterNodeStartUp
)

var interNodeNames = [...]string{
	"None",
	"AddToCache",
	"AddToQueue",
	"RemoveFromCache",
	"RemoveFromQueue",
	"ChangeMessageStateInQueue",
	"NewNodeDiscovered",
	"FullCacheUpdateSent",
	"FullCacheUpdateReceived",
	"FullQueueUpdateSent",
	"FullQueueUpdateReceived",
	"StartUp",
}

// String 返回消息类型的字符串表示
func (t InterNodeMessageType) String() string {
	if t < 0 || int(t) >= len(interNodeNames) {
		return "Unknown"
	}
	return interNodeNames[t]
}

// ============================================================================
//                              BroadcastMessageType - 广播消息类型
// ============================================================================

// BroadcastMessageType 发现协议消息类型
type BroadcastMessageType int32

const (
	// BroadcastNone 空消息，不允许发送
	BroadcastNone BroadcastMessageType = iota
	// BroadcastStartup 节点上线
	BroadcastStartup
	// BroadcastShutdown 节点下线
	BroadcastShutdown
	// BroadcastMasterNodeChallenge 主节点挑战（保留）
	BroadcastMasterNodeChallenge
	// BroadcastMasterNodeResponse 主节点应答（保留）
	BroadcastMasterNodeResponse
)

// String 返回消息类型的字符串表示
func (t BroadcastMessageType) String() string {
	switch t {
	case BroadcastNone:
		return "None"
	case BroadcastStartup:
		return "Startup"
	case BroadcastShutdown:
		return "Shutdown"
	case BroadcastMasterNodeChallenge:
		return "MasterNodeChallenge"
	case BroadcastMasterNodeResponse:
		return "MasterNodeResponse"
	default:
		return "Unknown"
	}
}

// ============================================================================
//                              ResponseStatus - 客户端响应状态
// ============================================================================

// ResponseStatus 客户端响应状态
type ResponseStatus int32

const (
	// StatusUnknown 未知
	StatusUnknown ResponseStatus = iota
	// StatusAccepted 任务已接收
	StatusAccepted
	// StatusOK 结果可用
	StatusOK
	// StatusNotFound 标签不存在
	StatusNotFound
	// StatusPending 任务仍在队列中
	StatusPending
	// StatusFailed 任务执行失败
	StatusFailed
	// StatusRejected 请求被拒绝
	StatusRejected
)

// String 返回状态的字符串表示
func (s ResponseStatus) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
