package forward

import (
	"context"
	"time"

	"forward_bot/internal/logger"

	botModels "github.com/go-telegram/bot/models"
)

// Pipeline 转发管线
// 消息流向：Submit → 聚合（媒体组去抖）→ 分类 → 过滤 → 调度投递。
// 过滤决策以批次为单位：代表消息（批次首条）被过滤则整个批次丢弃。
type Pipeline struct {
	aggregator *Aggregator
	filter     *FilterEngine
	dispatcher *Dispatcher
	provider   ConfigProvider
	stats      *Stats

	ctx context.Context
}

// NewPipeline 创建转发管线
func NewPipeline(ctx context.Context, provider ConfigProvider, dispatcher *Dispatcher, filter *FilterEngine, stats *Stats) *Pipeline {
	p := &Pipeline{
		filter:     filter,
		dispatcher: dispatcher,
		provider:   provider,
		stats:      stats,
		ctx:        ctx,
	}
	p.aggregator = NewAggregator(func() time.Duration {
		return time.Duration(provider.ForwardSettings().MediaGroupTimeout) * time.Second
	}, p.handleBatch)
	return p
}

// Submit 提交一条来自源频道的消息
func (p *Pipeline) Submit(msg *botModels.Message) {
	p.stats.MessageReceived()
	p.aggregator.Submit(msg)
}

// PendingGroups 当前仍在聚合窗口内的媒体组数
func (p *Pipeline) PendingGroups() int {
	return p.aggregator.Pending()
}

// handleBatch 聚合完成后的批次处理
// 配置快照在此处读取一次，过滤与投递使用同一份快照。
func (p *Pipeline) handleBatch(batch *Batch) {
	settings := p.provider.ForwardSettings()

	first := batch.First()
	kind := Classify(first)

	if p.filter.ShouldSuppress(settings, first, kind) {
		logger.L().Infof("Batch suppressed by filter: source=%d, kind=%s, messages=%d",
			first.Chat.ID, kind, len(batch.Messages))
		return
	}

	p.dispatcher.Dispatch(p.ctx, batch, settings, p.provider.NotificationSettings(), p.provider.Targets())
}
