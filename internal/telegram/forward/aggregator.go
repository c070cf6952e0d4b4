package forward

import (
	"sort"
	"sync"
	"time"

	"forward_bot/internal/logger"

	botModels "github.com/go-telegram/bot/models"
)

// Batch 聚合完成的一批消息，按消息 ID 升序排列
// 由 Aggregator 产出一次，由 Dispatcher 消费一次。
type Batch struct {
	GroupID  string               // 媒体组 ID（单条消息为空）
	Messages []*botModels.Message // 升序排列
	IsGroup  bool                 // 多条消息或带媒体组 ID
}

// First 返回批次的代表消息（过滤与 caption 构建使用）
func (b *Batch) First() *botModels.Message {
	return b.Messages[0]
}

// Aggregator 媒体组聚合器
// 按媒体组 ID 缓冲消息，每次到达重置该组的防抖定时器；定时器到期后
// 按消息 ID 排序并一次性产出批次。没有媒体组 ID 的消息立即产出单元素批次。
//
// 已知缺口：进程退出时尚未到期的媒体组会丢失（at-most-once），不做持久化恢复。
type Aggregator struct {
	mu      sync.Mutex
	groups  map[string]*groupState
	timeout func() time.Duration // 每次到达时读取，跟随配置快照
	onBatch func(*Batch)
}

// groupState 单个媒体组的聚合状态
type groupState struct {
	messages []*botModels.Message
	resetSeq uint64 // 单调递增；过期定时器携带旧序号时放弃执行
	timer    *time.Timer
}

// NewAggregator 创建聚合器
// timeout 为防抖窗口时长的提供函数；onBatch 在批次就绪时回调（定时器协程内执行）。
func NewAggregator(timeout func() time.Duration, onBatch func(*Batch)) *Aggregator {
	return &Aggregator{
		groups:  make(map[string]*groupState),
		timeout: timeout,
		onBatch: onBatch,
	}
}

// Submit 提交一条消息
// 不同媒体组互不阻塞；同一组的定时器重置与消息追加在锁内原子完成。
func (a *Aggregator) Submit(msg *botModels.Message) {
	groupID := msg.MediaGroupID
	if groupID == "" {
		// 非媒体组消息：直接产出单元素批次，不等待
		a.onBatch(&Batch{Messages: []*botModels.Message{msg}})
		return
	}

	a.mu.Lock()
	st, exists := a.groups[groupID]
	if !exists {
		st = &groupState{}
		a.groups[groupID] = st
		logger.L().Debugf("Media group buffer created: media_group_id=%s", groupID)
	}

	st.messages = append(st.messages, msg)
	st.resetSeq++
	seq := st.resetSeq

	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(a.timeout(), func() {
		a.flush(groupID, seq)
	})

	logger.L().Debugf("Media group message buffered: media_group_id=%s, total=%d", groupID, len(st.messages))
	a.mu.Unlock()
}

// flush 防抖到期后产出批次
// Stop 无法撤销已经触发的回调，序号比对是防止双重产出的最后防线。
func (a *Aggregator) flush(groupID string, seq uint64) {
	a.mu.Lock()
	st, exists := a.groups[groupID]
	if !exists || st.resetSeq != seq {
		// 定时器已被更新的到达取代，放弃
		a.mu.Unlock()
		return
	}
	delete(a.groups, groupID)
	a.mu.Unlock()

	if len(st.messages) == 0 {
		// 不应发生；按丢弃的组记录警告，绝不中断进程
		logger.L().Warnf("Media group %s flushed with no messages, dropped", groupID)
		return
	}

	// 按消息 ID 升序，抵御乱序到达
	sort.Slice(st.messages, func(i, j int) bool {
		return st.messages[i].ID < st.messages[j].ID
	})

	logger.L().Infof("Media group ready: media_group_id=%s, message_count=%d", groupID, len(st.messages))
	a.onBatch(&Batch{
		GroupID:  groupID,
		Messages: st.messages,
		IsGroup:  true,
	})
}

// Pending 返回仍在等待防抖的媒体组数量（状态展示用）
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.groups)
}
