// Package framing 实现长度前缀帧编解码
//
// 线路格式：
//
//	+----------------+---------------------+
//	| length (4B LE) | payload (length 字节) |
//	+----------------+---------------------+
//
// ConnState 是每条连接的接收状态机：WAIT_PREFIX → WAIT_BODY → DISPATCH →
// WAIT_PREFIX。前缀与负载可以被拆分到任意多次读取中，一次读取也可以包含
// 多条完整消息。
package framing
