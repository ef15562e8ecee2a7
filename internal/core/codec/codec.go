// Package codec 实现 tasknode 线路消息的编解码
//
// 消息结构由 pkg/lib/proto/tasknode/tasknode.proto 定义，编解码使用生成的
// 消息类型和 proto.Marshal / proto.Unmarshal。解码时未知字段被跳过，以便新旧
// 节点互通。
package codec

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"

	pb "github.com/dep2p/go-tasknode/pkg/lib/proto/tasknode"
	"github.com/dep2p/go-tasknode/pkg/types"
)

// Codec 消息编解码器
type Codec struct{}

// New 创建编解码器
func New() *Codec {
	return &Codec{}
}

// ============================================================================
//                              Task / ResultEntry
// ============================================================================

// EncodeTask 编码任务
func (c *Codec) EncodeTask(t types.Task) []byte {
	return marshal(taskToPB(t))
}

// DecodeTask 解码任务
func (c *Codec) DecodeTask(data []byte) (types.Task, error) {
	msg := &pb.Task{}
	if err := unmarshal(data, msg); err != nil {
		return types.Task{}, fmt.Errorf("decode task: %w", err)
	}
	t, err := taskFromPB(msg)
	if err != nil {
		return types.Task{}, fmt.Errorf("decode task: %w", err)
	}
	return t, nil
}

func taskToPB(t types.Task) *pb.Task {
	msg := &pb.Task{
		Priority:  int32(t.Priority),
		Tag:       validString(t.Tag),
		State:     int32(t.State),
		Payload:   t.Payload,
		Source:    addrBytes(t.Source),
		LocalOnly: t.LocalOnly,
	}
	if !t.CreatedAt.IsZero() {
		msg.CreatedAt = t.CreatedAt.UnixNano()
	}
	return msg
}

func taskFromPB(msg *pb.Task) (types.Task, error) {
	src, err := parseAddr(msg.GetSource())
	if err != nil {
		return types.Task{}, err
	}
	t := types.Task{
		Priority:  types.QueuePriority(msg.GetPriority()),
		Tag:       msg.GetTag(),
		State:     types.QueuedProcessState(msg.GetState()),
		Payload:   msg.GetPayload(),
		Source:    src,
		LocalOnly: msg.GetLocalOnly(),
	}
	if ns := msg.GetCreatedAt(); ns != 0 {
		t.CreatedAt = time.Unix(0, ns).UTC()
	}
	return t, nil
}

// EncodeResult 编码结果
func (c *Codec) EncodeResult(r types.ResultEntry) []byte {
	return marshal(resultToPB(r))
}

// DecodeResult 解码结果
func (c *Codec) DecodeResult(data []byte) (types.ResultEntry, error) {
	msg := &pb.ResultEntry{}
	if err := unmarshal(data, msg); err != nil {
		return types.ResultEntry{}, fmt.Errorf("decode result: %w", err)
	}
	r, err := resultFromPB(msg)
	if err != nil {
		return types.ResultEntry{}, fmt.Errorf("decode result: %w", err)
	}
	return r, nil
}

func resultToPB(r types.ResultEntry) *pb.ResultEntry {
	return &pb.ResultEntry{
		Payload: r.Payload,
		Source:  addrBytes(r.Source),
		Error:   validString(r.Error),
	}
}

func resultFromPB(msg *pb.ResultEntry) (types.ResultEntry, error) {
	src, err := parseAddr(msg.GetSource())
	if err != nil {
		return types.ResultEntry{}, err
	}
	return types.ResultEntry{
		Payload: msg.GetPayload(),
		Source:  src,
		Error:   msg.GetError(),
	}, nil
}

// ============================================================================
//                              协议消息
// ============================================================================

// EncodeInterNode 编码节点间消息
func (c *Codec) EncodeInterNode(m types.InterNodeMessage) []byte {
	return marshal(&pb.InterNodeMessage{
		Type:      int32(m.Type),
		Payload:   m.Payload,
		LocalOnly: m.LocalOnly,
		Tag:       validString(m.Tag),
	})
}

// DecodeInterNode 解码节点间消息
//
// 类型超出定义范围时返回 ErrUnknownType，已解析的字段仍随消息返回。
func (c *Codec) DecodeInterNode(data []byte) (types.InterNodeMessage, error) {
	msg := &pb.InterNodeMessage{}
	if err := unmarshal(data, msg); err != nil {
		return types.InterNodeMessage{}, fmt.Errorf("decode inter-node message: %w", err)
	}
	m := types.InterNodeMessage{
		Type:      types.InterNodeMessageType(msg.GetType()),
		Payload:   msg.GetPayload(),
		LocalOnly: msg.GetLocalOnly(),
		Tag:       msg.GetTag(),
	}
	if m.Type < types.InterNodeNone || m.Type > types.InterNodeStartUp {
		return m, fmt.Errorf("%w: inter-node %d", ErrUnknownType, m.Type)
	}
	return m, nil
}

// EncodeClient 编码客户端请求
func (c *Codec) EncodeClient(m types.ClientMessage) []byte {
	return marshal(&pb.ClientMessage{
		Type:     int32(m.Type),
		Payload:  m.Payload,
		Tag:      validString(m.Tag),
		Priority: int32(m.Priority),
	})
}

// DecodeClient 解码客户端请求
//
// 未知类型原样返回，由协议层回复 Rejected。
func (c *Codec) DecodeClient(data []byte) (types.ClientMessage, error) {
	msg := &pb.ClientMessage{}
	if err := unmarshal(data, msg); err != nil {
		return types.ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	return types.ClientMessage{
		Type:     types.ClientMessageType(msg.GetType()),
		Payload:  msg.GetPayload(),
		Tag:      msg.GetTag(),
		Priority: types.QueuePriority(msg.GetPriority()),
	}, nil
}

// EncodeResponse 编码客户端响应
func (c *Codec) EncodeResponse(r types.ClientResponse) []byte {
	return marshal(&pb.ClientResponse{
		Tag:     validString(r.Tag),
		Status:  int32(r.Status),
		Payload: r.Payload,
		Source:  addrBytes(r.Source),
		Error:   validString(r.Error),
	})
}

// DecodeResponse 解码客户端响应
func (c *Codec) DecodeResponse(data []byte) (types.ClientResponse, error) {
	msg := &pb.ClientResponse{}
	if err := unmarshal(data, msg); err != nil {
		return types.ClientResponse{}, fmt.Errorf("decode client response: %w", err)
	}
	src, err := parseAddr(msg.GetSource())
	if err != nil {
		return types.ClientResponse{}, fmt.Errorf("decode client response: %w", err)
	}
	return types.ClientResponse{
		Tag:     msg.GetTag(),
		Status:  types.ResponseStatus(msg.GetStatus()),
		Payload: msg.GetPayload(),
		Source:  src,
		Error:   msg.GetError(),
	}, nil
}

// EncodeDiscovery 编码发现消息
func (c *Codec) EncodeDiscovery(m types.DiscoveryMessage) []byte {
	return marshal(&pb.DiscoveryMessage{
		Type: int32(m.Type),
		Addr: addrBytes(m.Endpoint.Addr()),
		Port: uint32(m.Endpoint.Port()),
	})
}

// DecodeDiscovery 解码发现消息
func (c *Codec) DecodeDiscovery(data []byte) (types.DiscoveryMessage, error) {
	msg := &pb.DiscoveryMessage{}
	if err := unmarshal(data, msg); err != nil {
		return types.DiscoveryMessage{}, fmt.Errorf("decode discovery message: %w", err)
	}
	addr, err := parseAddr(msg.GetAddr())
	if err != nil {
		return types.DiscoveryMessage{}, fmt.Errorf("decode discovery message: %w", err)
	}
	if msg.GetPort() > 0xFFFF {
		return types.DiscoveryMessage{}, fmt.Errorf("decode discovery message: %w: port %d out of range", ErrInvalidMessage, msg.GetPort())
	}

	m := types.DiscoveryMessage{Type: types.BroadcastMessageType(msg.GetType())}
	if m.Type < types.BroadcastNone || m.Type > types.BroadcastMasterNodeResponse {
		return m, fmt.Errorf("%w: broadcast %d", ErrUnknownType, m.Type)
	}
	m.Endpoint = netip.AddrPortFrom(addr, uint16(msg.GetPort()))
	return m, nil
}

// ============================================================================
//                              全量同步快照
// ============================================================================

// EncodeCacheSnapshot 编码缓存快照
func (c *Codec) EncodeCacheSnapshot(s types.CacheSnapshot) []byte {
	msg := &pb.CacheSnapshot{Items: make([]*pb.CacheItem, 0, len(s))}
	for k, v := range s {
		msg.Items = append(msg.Items, &pb.CacheItem{Key: validString(k), Value: resultToPB(v)})
	}
	return marshal(msg)
}

// DecodeCacheSnapshot 解码缓存快照
func (c *Codec) DecodeCacheSnapshot(data []byte) (types.CacheSnapshot, error) {
	msg := &pb.CacheSnapshot{}
	if err := unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode cache snapshot: %w", err)
	}
	s := make(types.CacheSnapshot, len(msg.GetItems()))
	for _, item := range msg.GetItems() {
		v, err := resultFromPB(item.GetValue())
		if err != nil {
			return nil, fmt.Errorf("decode cache snapshot: %w", err)
		}
		s[item.GetKey()] = v
	}
	return s, nil
}

// EncodeQueueSnapshot 编码队列快照
func (c *Codec) EncodeQueueSnapshot(tasks []types.Task) []byte {
	msg := &pb.QueueSnapshot{Tasks: make([]*pb.Task, 0, len(tasks))}
	for _, t := range tasks {
		msg.Tasks = append(msg.Tasks, taskToPB(t))
	}
	return marshal(msg)
}

// DecodeQueueSnapshot 解码队列快照
func (c *Codec) DecodeQueueSnapshot(data []byte) (types.QueueSnapshot, error) {
	msg := &pb.QueueSnapshot{}
	if err := unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode queue snapshot: %w", err)
	}
	var out types.QueueSnapshot
	for _, m := range msg.GetTasks() {
		t, err := taskFromPB(m)
		if err != nil {
			return nil, fmt.Errorf("decode queue snapshot: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// ============================================================================
//                              状态变更负载
// ============================================================================

// EncodeState 编码 ChangeMessageStateInQueue 的负载：int32 小端
func (c *Codec) EncodeState(s types.QueuedProcessState) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(int32(s)))
	return b
}

// DecodeState 解码状态负载
func (c *Codec) DecodeState(data []byte) (types.QueuedProcessState, error) {
	if len(data) != 4 {
		return types.StateNone, fmt.Errorf("%w: state payload must be 4 bytes, got %d", ErrInvalidMessage, len(data))
	}
	s := types.QueuedProcessState(int32(binary.LittleEndian.Uint32(data)))
	if !s.IsValid() {
		return s, fmt.Errorf("%w: state %d", ErrUnknownType, s)
	}
	return s, nil
}

// ============================================================================
//                              辅助函数
// ============================================================================

// marshal 编码消息
//
// 字符串字段写入前已替换非法 UTF-8，proto.Marshal 不会失败。
func marshal(m proto.Message) []byte {
	data, _ := proto.Marshal(m)
	return data
}

func unmarshal(data []byte, m proto.Message) error {
	if err := proto.Unmarshal(data, m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return nil
}

// validString proto3 的 string 字段要求合法 UTF-8
func validString(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func addrBytes(a netip.Addr) []byte {
	if !a.IsValid() {
		return nil
	}
	raw, _ := a.MarshalBinary()
	return raw
}

// parseAddr 空字节表示没有地址
func parseAddr(raw []byte) (netip.Addr, error) {
	if len(raw) == 0 {
		return netip.Addr{}, nil
	}
	var a netip.Addr
	if err := a.UnmarshalBinary(raw); err != nil {
		return netip.Addr{}, fmt.Errorf("%w: address: %v", ErrInvalidMessage, err)
	}
	return a, nil
}
