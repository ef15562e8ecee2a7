//go:build unix

package sockopt

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// ReuseAddr 设置 SO_REUSEADDR
//
// 用作 net.ListenConfig.Control / net.Dialer.Control。
func ReuseAddr(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			opErr = fmt.Errorf("set SO_REUSEADDR: %w", err)
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

// Broadcast 设置 SO_REUSEADDR 和 SO_BROADCAST
func Broadcast(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			opErr = fmt.Errorf("set SO_REUSEADDR: %w", err)
			return
		}
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
			opErr = fmt.Errorf("set SO_BROADCAST: %w", err)
		}
	})
	if err != nil {
		return err
	}
	return opErr
}
