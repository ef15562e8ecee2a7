// Package udp 实现节点发现使用的 UDP 广播套接字
//
// 发现消息与 TCP 使用同样的长度前缀分帧，每个数据报恰好承载一帧。
// 广播目标按以下顺序选择：配置的广播地址、绑定网卡所在子网的广播地址、
// 255.255.255.255。
//
// 接收循环丢弃来自本机绑定地址的数据报，以及长度不足的数据报。
package udp
