package node

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-tasknode/internal/core/cache"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
	"github.com/dep2p/go-tasknode/pkg/types"
)

// startWorkers 启动执行任务的 worker
func (n *Node) startWorkers(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n.cfg.Workers; i++ {
		g.Go(func() error {
			n.workLoop(gctx)
			return nil
		})
	}

	n.mu.Lock()
	n.workers = g
	n.mu.Unlock()
}

// wakeWorker 通知一个空闲 worker，不阻塞
func (n *Node) wakeWorker() {
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// runnableHere 只执行由本节点接收的任务
func runnableHere(t types.Task) bool {
	return !t.LocalOnly
}

func (n *Node) workLoop(ctx context.Context) {
	ticker := time.NewTicker(n.cfg.PollInterval)
	defer ticker.Stop()

	for {
		for {
			if ctx.Err() != nil {
				return
			}
			task, ok := n.queue.Claim(runnableHere)
			if !ok {
				break
			}
			n.execute(ctx, task)
		}

		select {
		case <-ctx.Done():
			return
		case <-n.wake:
		case <-ticker.C:
		}
	}
}

// execute 执行一个已置为 Running 的任务
//
// 结果写入缓存（订阅者复制 AddToCache），随后完成任务（订阅者复制 RemoveFromQueue）。
// 节点停止导致的取消会把任务放回 Runnable。
func (n *Node) execute(ctx context.Context, task types.Task) {
	execCtx := ctx
	if n.cfg.ExecTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, n.cfg.ExecTimeout)
		defer cancel()
	}

	tag := log.TruncateTag(task.Tag, 16)
	start := time.Now()
	out, err := n.exec.Execute(execCtx, task.Payload)

	if ctx.Err() != nil {
		if cerr := n.queue.ChangeState(task.Tag, types.StateRunnable, true); cerr != nil {
			logger.Debug("取消的任务无法放回队列", "tag", tag, "err", cerr)
		}
		return
	}

	entry := types.ResultEntry{Payload: out, Source: n.Self().Addr()}
	if err != nil {
		entry.Payload = nil
		entry.Error = err.Error()
		logger.Warn("任务执行失败", "tag", tag, "executor", n.exec.Name(), "err", err)
	} else {
		logger.Debug("任务执行完成", "tag", tag, "elapsed", time.Since(start))
	}
	n.metrics.TaskExecuted(err != nil)

	if werr := n.cache.Write(task.Tag, entry, false); werr != nil {
		if errors.Is(werr, cache.ErrKeyExists) {
			logger.Warn("结果已存在，丢弃本次结果", "tag", tag)
		} else {
			logger.Warn("写入结果失败", "tag", tag, "err", werr)
		}
	}
	n.queue.Complete(task.Tag)
}
