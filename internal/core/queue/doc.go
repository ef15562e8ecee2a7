// Package queue 实现可观察的优先级工作队列
//
// 出队顺序：优先级降序，其次创建时间升序，最后按入队顺序。只有 Runnable
// 状态的任务可以出队。任务标签在队列内唯一。
//
// 队列的变更通过 eventbus.Feed 通知订阅者：
//   - EventEnqueued     Enqueue(task, notify=true)
//   - EventStateChanged ChangeState(tag, state, localOnly=false) 与 Claim
//   - EventCompleted    Complete(tag)
//
// 同一个订阅者按变更发生的顺序收到这些事件。
package queue
