package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Server /metrics HTTP 服务
type Server struct {
	addr    string
	metrics *Metrics

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// NewServer 创建指标服务
func NewServer(addr string, m *Metrics) *Server {
	return &Server{addr: addr, metrics: m}
}

// Start 开始监听
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	s.mu.Lock()
	s.srv, s.ln = srv, ln
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("指标服务退出", "err", err)
		}
	}()
	logger.Info("指标服务已启动", "addr", ln.Addr().String())
	return nil
}

// Addr 返回实际监听地址，未启动时返回配置地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop 关闭服务
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
