// Package metrics 提供节点监控指标
//
// 两部分组成：
//
//   - BandwidthCounter：TCP 套接字共享的流量计数器，带一分钟滑动窗口速率
//   - Metrics：Prometheus 指标集合（任务、复制、客户端请求、发现消息、流量）
//
// 启用 diagnostics.enable_metrics 后，Server 在配置地址上提供 /metrics。
//
// # 快速开始
//
//	bw := metrics.NewBandwidthCounter()
//	m := metrics.New(bw)
//	m.TaskEnqueued()
//	m.ReplicationSent(types.InterNodeAddToQueue, 2, 0)
//
//	srv := metrics.NewServer("127.0.0.1:9270", m)
//	srv.Start()
//	defer srv.Stop(ctx)
package metrics
