// Package types 定义 tasknode 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - enums.go     - 线路枚举：QueuePriority, QueuedProcessState, ClientMessageType,
//     InterNodeMessageType, BroadcastMessageType, ResponseStatus
//   - task.go      - Task, ResultEntry
//   - messaging.go - InterNodeMessage, ClientMessage, ClientResponse, DiscoveryMessage, 快照
//   - errors.go    - 公共错误定义
//
// 线路编码见 internal/core/codec。
package types
