// Package interfaces 定义 tasknode 的公共接口
//
// 接口按职能组织：
//   - node.go     - Node 门面接口（用户入口）
//   - executor.go - 任务执行器插件
//   - store.go    - 队列与结果缓存的只读视图
//
// 具体实现位于 internal/ 下，由根包的 fx 装配连接。
package interfaces
