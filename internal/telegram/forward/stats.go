package forward

import (
	"sync/atomic"
	"time"
)

// Stats 运行期计数器（/status 展示）
type Stats struct {
	startTime time.Time

	messagesReceived     atomic.Int64
	messagesForwarded    atomic.Int64
	failedForwards       atomic.Int64
	mediaGroupsForwarded atomic.Int64
}

// StatsSnapshot 计数器快照
type StatsSnapshot struct {
	Uptime               time.Duration
	MessagesReceived     int64
	MessagesForwarded    int64
	FailedForwards       int64
	MediaGroupsForwarded int64
}

// NewStats 创建计数器，起点为当前时间
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// MessageReceived 记录一条入站消息
func (s *Stats) MessageReceived() {
	s.messagesReceived.Add(1)
}

// BatchForwarded 记录一次成功投递（至少一个目标成功）
func (s *Stats) BatchForwarded(messageCount int, isGroup bool) {
	s.messagesForwarded.Add(int64(messageCount))
	if isGroup {
		s.mediaGroupsForwarded.Add(1)
	}
}

// ForwardFailed 记录一次目标投递失败
func (s *Stats) ForwardFailed(messageCount int) {
	s.failedForwards.Add(int64(messageCount))
}

// Snapshot 返回当前计数器快照
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Uptime:               time.Since(s.startTime),
		MessagesReceived:     s.messagesReceived.Load(),
		MessagesForwarded:    s.messagesForwarded.Load(),
		FailedForwards:       s.failedForwards.Load(),
		MediaGroupsForwarded: s.mediaGroupsForwarded.Load(),
	}
}
