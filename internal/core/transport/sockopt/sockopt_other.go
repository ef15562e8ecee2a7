//go:build !unix

package sockopt

import "syscall"

// ReuseAddr 非 unix 平台不设置选项
func ReuseAddr(_, _ string, _ syscall.RawConn) error { return nil }

// Broadcast 非 unix 平台不设置选项
//
// Windows 上 UDP 广播需要的 SO_BROADCAST 由运行时在 WriteTo 广播地址时处理。
func Broadcast(_, _ string, _ syscall.RawConn) error { return nil }
