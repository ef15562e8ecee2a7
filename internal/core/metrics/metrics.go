package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-tasknode/pkg/types"
)

const namespace = "tasknode"

// Metrics 节点指标集合
//
// 每个实例使用独立的 Registry，同一进程内可运行多个节点。
type Metrics struct {
	registry *prometheus.Registry

	tasksEnqueued     prometheus.Counter
	tasksExecuted     *prometheus.CounterVec
	replicationSent   *prometheus.CounterVec
	replicationFailed *prometheus.CounterVec
	clientRequests    *prometheus.CounterVec
	discoveryMessages *prometheus.CounterVec
}

// New 创建指标集合，bw 可为 nil
func New(bw *BandwidthCounter) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tasksEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_enqueued_total",
			Help:      "Tasks accepted from clients.",
		}),
		tasksExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_executed_total",
			Help:      "Tasks executed by this node, by outcome.",
		}, []string{"outcome"}),
		replicationSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_sent_total",
			Help:      "Inter-node messages delivered to peers, by type.",
		}, []string{"type"}),
		replicationFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_failed_total",
			Help:      "Inter-node messages that could not be delivered, by type.",
		}, []string{"type"}),
		clientRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_requests_total",
			Help:      "Client requests received, by type.",
		}, []string{"type"}),
		discoveryMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_messages_total",
			Help:      "Discovery broadcasts received, by type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.tasksEnqueued,
		m.tasksExecuted,
		m.replicationSent,
		m.replicationFailed,
		m.clientRequests,
		m.discoveryMessages,
		collectors.NewGoCollector(),
	)

	if bw != nil {
		m.registry.MustRegister(
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_received_bytes_total",
				Help:      "Bytes read from TCP connections.",
			}, func() float64 { return float64(bw.Totals().TotalIn) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_sent_bytes_total",
				Help:      "Bytes written to TCP connections.",
			}, func() float64 { return float64(bw.Totals().TotalOut) }),
		)
	}
	return m
}

// RegisterGauge 注册一个按需取值的 gauge
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) error {
	return m.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// TaskEnqueued 记录一个被接受的任务
func (m *Metrics) TaskEnqueued() {
	m.tasksEnqueued.Inc()
}

// TaskExecuted 记录一次执行结果
func (m *Metrics) TaskExecuted(failed bool) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	m.tasksExecuted.WithLabelValues(outcome).Inc()
}

// ReplicationSent 记录一次扇出的结果
func (m *Metrics) ReplicationSent(t types.InterNodeMessageType, delivered, failed int) {
	if delivered > 0 {
		m.replicationSent.WithLabelValues(t.String()).Add(float64(delivered))
	}
	if failed > 0 {
		m.replicationFailed.WithLabelValues(t.String()).Add(float64(failed))
	}
}

// ClientRequest 记录一个客户端请求
func (m *Metrics) ClientRequest(t types.ClientMessageType) {
	m.clientRequests.WithLabelValues(t.String()).Inc()
}

// DiscoveryMessage 记录一条发现消息
func (m *Metrics) DiscoveryMessage(t types.BroadcastMessageType) {
	m.discoveryMessages.WithLabelValues(t.String()).Inc()
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
