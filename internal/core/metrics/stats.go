package metrics

// Stats 流量快照
//
// TotalIn / TotalOut 为累计字节数，RateIn / RateOut 为最近一分钟平均每秒字节数。
type Stats struct {
	TotalIn  int64
	TotalOut int64
	RateIn   float64
	RateOut  float64
}
