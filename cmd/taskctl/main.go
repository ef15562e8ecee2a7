// Package main 提供 taskctl 命令行客户端
//
// 用法：
//
//	taskctl [-addr 127.0.0.1:270] submit [-priority high] [-tag t] <payload>
//	taskctl [-addr 127.0.0.1:270] fetch <tag>
//	taskctl [-addr 127.0.0.1:270] wait <tag>
//	taskctl [-addr 127.0.0.1:270] run [-priority high] <payload>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dep2p/go-tasknode/pkg/client"
	"github.com/dep2p/go-tasknode/pkg/types"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:270", "节点客户端端点")
	timeout := fs.Duration("timeout", 30*time.Second, "整体超时")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("缺少子命令: submit/fetch/wait/run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := client.Dial(ctx, *addr)
	if err != nil {
		return err
	}
	defer c.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "submit", "run":
		sub := flag.NewFlagSet(cmd, flag.ContinueOnError)
		prio := sub.String("priority", "normal", "优先级 (lowest/low/normal/high/highest)")
		tag := sub.String("tag", "", "任务标签（默认随机）")
		if err := sub.Parse(rest); err != nil {
			return err
		}
		if sub.NArg() != 1 {
			return fmt.Errorf("%s 需要一个负载参数", cmd)
		}
		priority, err := types.ParsePriority(*prio)
		if err != nil {
			return err
		}

		t := *tag
		payload := []byte(sub.Arg(0))
		if t == "" {
			t, err = c.Submit(ctx, payload, priority)
		} else {
			err = c.SubmitTag(ctx, t, payload, priority)
		}
		if err != nil {
			return err
		}
		if cmd == "submit" {
			fmt.Fprintln(out, t)
			return nil
		}
		resp, err := c.Wait(ctx, t)
		if err != nil {
			return err
		}
		return printResponse(out, resp)

	case "fetch", "wait":
		if len(rest) != 1 {
			return fmt.Errorf("%s 需要一个标签参数", cmd)
		}
		var resp types.ClientResponse
		if cmd == "fetch" {
			resp, err = c.Fetch(ctx, rest[0])
		} else {
			resp, err = c.Wait(ctx, rest[0])
		}
		if err != nil {
			return err
		}
		return printResponse(out, resp)

	default:
		return fmt.Errorf("未知子命令 %q", cmd)
	}
}

func printResponse(out io.Writer, resp types.ClientResponse) error {
	switch resp.Status {
	case types.StatusOK:
		fmt.Fprintf(out, "%s\t%s\t%s\n", resp.Tag, resp.Source, resp.Payload)
		return nil
	case types.StatusFailed:
		return fmt.Errorf("任务 %s 在 %s 上执行失败: %s", resp.Tag, resp.Source, resp.Error)
	default:
		fmt.Fprintf(out, "%s\t%s\n", resp.Tag, resp.Status)
		return nil
	}
}
