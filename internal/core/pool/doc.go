// Package pool 实现有界资源池
//
// Pool[T] 用加权信号量记录可用资源数量，Take 在资源耗尽时协作式阻塞，
// Insert 归还资源并唤醒一个等待者。BufferManager 在其上组合出传输层使用的
// 接收缓冲区池与连接状态池。
//
// 不变式：信号量计数永远不大于池内资源数量。Take 获取信号量后池为空
// 意味着不变式被破坏，直接 panic。
package pool
