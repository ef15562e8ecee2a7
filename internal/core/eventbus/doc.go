// Package eventbus 实现进程内类型化的订阅分发
//
// Feed[T] 是一个监听者注册表：发布方调用 Publish，每个订阅者拥有独立的
// 有序邮箱和投递 goroutine，因此 Publish 从不阻塞，订阅者之间互不影响。
//
// # 快速开始
//
//	feed := eventbus.NewFeed[types.Task]("queue")
//	sub, _ := feed.Subscribe(eventbus.ObserverFunc[types.Task](func(t types.Task) {
//	    // 处理事件
//	}))
//
//	feed.Publish(task)
//
//	// 取消订阅：剩余事件投递完毕后回调 OnCompleted，然后从注册表移除
//	sub.Close()
//	<-sub.Done()
//
// # 并发安全
//
//   - 注册表：RWMutex 保护
//   - 邮箱：每个订阅者一把 Mutex + Cond
//   - 关闭：closeOnce 防止重复
//
// 订阅者可以在自己的回调中调用 Close，但不能在回调中等待 Done。
package eventbus
