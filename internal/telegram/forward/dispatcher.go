package forward

import (
	"context"
	"fmt"
	"sync"
	"time"

	"forward_bot/internal/logger"
	"forward_bot/internal/telegram/models"
	"forward_bot/internal/telegram/repository"

	botModels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// ConfigProvider 调度所需的配置视图
// 由 service.ConfigService 实现；所有读取返回快照。
type ConfigProvider interface {
	ForwardSettings() models.ForwardSettings
	NotificationSettings() models.NotificationSettings
	Targets() []int64
	Admins() []int64
}

// Dispatcher 批次调度器
// 批次状态机：Pending → Delayed(可选) → 逐目标 Sending → Success|Failed → Done。
// 目标之间相互独立：单个目标失败不阻塞后续目标；所有目标尝试完毕、
// 投递记录写入（或尝试写入）之后批次才算完成。
type Dispatcher struct {
	sender   Sender
	log      repository.DeliveryLogRepository
	notifier *Notifier
	limiter  *RateLimiter
	stats    *Stats
}

// targetOutcome 单个目标的投递结果
type targetOutcome struct {
	records []*models.DeliveryRecord
	sent    int   // 实际送达的消息数（排除相册无法承载的条目）
	err     error // 提供方错误（目标不可达/拒绝）
}

// NewDispatcher 创建调度器
func NewDispatcher(sender Sender, log repository.DeliveryLogRepository, notifier *Notifier, limiter *RateLimiter, stats *Stats) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		log:      log,
		notifier: notifier,
		limiter:  limiter,
		stats:    stats,
	}
}

// Dispatch 将批次投递到所有目标
// settings 为批次开始时的配置快照，调度途中的配置变更对本批次不生效。
func (d *Dispatcher) Dispatch(ctx context.Context, batch *Batch, settings models.ForwardSettings, notif models.NotificationSettings, targets []int64) {
	if len(batch.Messages) == 0 {
		return
	}
	if len(targets) == 0 {
		logger.L().Info("No target channels configured, skipping batch")
		return
	}

	batchID := uuid.New().String()
	logger.L().Infof("Dispatching batch: batch_id=%s, source=%d, messages=%d, targets=%d, is_group=%v",
		batchID, batch.First().Chat.ID, len(batch.Messages), len(targets), batch.IsGroup)

	// 批次级延迟：仅一次，不按目标重复
	if settings.DelaySeconds > 0 {
		select {
		case <-ctx.Done():
			logger.L().Warnf("Batch %s canceled during delay: %v", batchID, ctx.Err())
			return
		case <-time.After(time.Duration(settings.DelaySeconds) * time.Second):
		}
	}

	d.limiter.SetLimit(settings.MaxForwardsPerMinute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	records := make([]*models.DeliveryRecord, 0, len(targets)*len(batch.Messages))
	successTargets := 0
	failedTargets := 0
	sentCount := 0

	for _, targetID := range targets {
		wg.Add(1)
		go func(targetID int64) {
			defer wg.Done()

			outcome := d.deliverToTarget(ctx, settings, batch, batchID, targetID)

			mu.Lock()
			records = append(records, outcome.records...)
			if outcome.err == nil {
				successTargets++
				if outcome.sent > sentCount {
					sentCount = outcome.sent
				}
			} else {
				failedTargets++
			}
			mu.Unlock()

			if outcome.err != nil {
				logger.L().Errorf("Delivery failed: batch_id=%s, %d -> %d: %v",
					batchID, batch.First().Chat.ID, targetID, outcome.err)
				d.stats.ForwardFailed(len(batch.Messages))
				if notif.NotifyAdminOnError {
					d.notifier.NotifyFailure(ctx, batch.First(), targetID, outcome.err)
				}
			}
		}(targetID)
	}

	wg.Wait()

	// 记录写入失败不中断调度，只记录到运行日志
	if err := d.log.BulkCreate(ctx, records); err != nil {
		logger.L().Errorf("Failed to persist delivery records for batch %s: %v", batchID, err)
	}

	// 只统计真正送达的消息数，相册里被排除的条目不计入
	if successTargets > 0 {
		d.stats.BatchForwarded(sentCount, batch.IsGroup)
	}

	logger.L().Infof("Batch done: batch_id=%s, targets_ok=%d, targets_failed=%d, records=%d",
		batchID, successTargets, failedTargets, len(records))
}

// deliverToTarget 向单个目标投递整个批次
// 任何失败都收敛为 outcome，绝不越过目标边界向外抛出。
func (d *Dispatcher) deliverToTarget(ctx context.Context, settings models.ForwardSettings, batch *Batch, batchID string, targetID int64) (outcome targetOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Errorf("Delivery panic recovered: target=%d: %v", targetID, r)
			outcome = d.failAll(batch, batchID, targetID, fmt.Errorf("internal delivery error: %v", r))
		}
	}()

	// 速率限制：每个目标的发送占一个窗口配额
	if err := d.limiter.Wait(ctx); err != nil {
		return d.failAll(batch, batchID, targetID, fmt.Errorf("rate limiter wait: %w", err))
	}

	if batch.IsGroup && len(batch.Messages) > 1 {
		return d.deliverAlbum(ctx, settings, batch, batchID, targetID)
	}
	return d.deliverSingle(ctx, settings, batch, batchID, targetID)
}

// deliverAlbum 以媒体组形式投递多条消息
func (d *Dispatcher) deliverAlbum(ctx context.Context, settings models.ForwardSettings, batch *Batch, batchID string, targetID int64) targetOutcome {
	caption := BuildCaption(settings, batch.First())

	var outcome targetOutcome
	var media []botModels.InputMedia
	var sendable []*botModels.Message

	for _, msg := range batch.Messages {
		// caption 只挂第一个可发送的条目
		itemCaption := ""
		if len(media) == 0 {
			itemCaption = caption
		}

		item := buildInputMedia(msg, itemCaption)
		if item == nil {
			// 媒体组无法承载的类型：跳过并记录为失败，不与其他槽位合并
			kind := Classify(msg)
			logger.L().Warnf("Unsupported media type in album: kind=%s, message_id=%d", kind, msg.ID)
			rec := models.NewDeliveryRecord(batchID, msg.Chat.ID, targetID, msg.ID, string(kind), batch.GroupID, true)
			rec.ErrorMessage = fmt.Sprintf("content kind %s not representable in album", kind)
			outcome.records = append(outcome.records, rec)
			continue
		}

		media = append(media, item)
		sendable = append(sendable, msg)
	}

	if len(media) == 0 {
		// 没有可发送条目：未发起提供方调用，整个目标按失败处理
		outcome.err = fmt.Errorf("no album-representable content in media group %s", batch.GroupID)
		return outcome
	}

	sent, err := d.sender.SendAlbum(ctx, targetID, media)
	if err != nil {
		for _, msg := range sendable {
			rec := models.NewDeliveryRecord(batchID, msg.Chat.ID, targetID, msg.ID, string(Classify(msg)), batch.GroupID, true)
			rec.ErrorMessage = err.Error()
			outcome.records = append(outcome.records, rec)
		}
		outcome.err = err
		return outcome
	}

	for i, msg := range sendable {
		rec := models.NewDeliveryRecord(batchID, msg.Chat.ID, targetID, msg.ID, string(Classify(msg)), batch.GroupID, true)
		rec.Success = true
		if i < len(sent) && sent[i] != nil {
			rec.ForwardedMessageID = sent[i].ID
		}
		outcome.records = append(outcome.records, rec)
	}
	outcome.sent = len(sendable)

	logger.L().Infof("Album delivered: %d -> %d (%d items)", batch.First().Chat.ID, targetID, len(media))
	return outcome
}

// deliverSingle 以复制方式投递单条消息
func (d *Dispatcher) deliverSingle(ctx context.Context, settings models.ForwardSettings, batch *Batch, batchID string, targetID int64) targetOutcome {
	msg := batch.First()
	kind := Classify(msg)

	// add_source_info 关闭时不传 caption，Bot API 保留原始 caption
	caption := ""
	if settings.AddSourceInfo {
		caption = BuildCaption(settings, msg)
	}

	rec := models.NewDeliveryRecord(batchID, msg.Chat.ID, targetID, msg.ID, string(kind), batch.GroupID, batch.IsGroup)

	forwardedID, err := d.sender.CopyTo(ctx, targetID, msg.Chat.ID, msg.ID, caption)
	if err != nil {
		rec.ErrorMessage = err.Error()
		return targetOutcome{records: []*models.DeliveryRecord{rec}, err: err}
	}

	rec.Success = true
	rec.ForwardedMessageID = forwardedID
	logger.L().Infof("Message delivered: %d -> %d", msg.Chat.ID, targetID)
	return targetOutcome{records: []*models.DeliveryRecord{rec}, sent: 1}
}

// failAll 为批次内每条消息生成失败记录
func (d *Dispatcher) failAll(batch *Batch, batchID string, targetID int64, err error) targetOutcome {
	outcome := targetOutcome{err: err}
	for _, msg := range batch.Messages {
		rec := models.NewDeliveryRecord(batchID, msg.Chat.ID, targetID, msg.ID, string(Classify(msg)), batch.GroupID, batch.IsGroup)
		rec.ErrorMessage = err.Error()
		outcome.records = append(outcome.records, rec)
	}
	return outcome
}

// buildInputMedia 将消息映射为媒体组条目；无法承载的类型返回 nil
func buildInputMedia(msg *botModels.Message, caption string) botModels.InputMedia {
	switch {
	case len(msg.Photo) > 0:
		// 取最高分辨率
		return &botModels.InputMediaPhoto{
			Media:   msg.Photo[len(msg.Photo)-1].FileID,
			Caption: caption,
		}
	case msg.Video != nil:
		return &botModels.InputMediaVideo{
			Media:   msg.Video.FileID,
			Caption: caption,
		}
	case msg.Document != nil:
		return &botModels.InputMediaDocument{
			Media:   msg.Document.FileID,
			Caption: caption,
		}
	case msg.Audio != nil:
		return &botModels.InputMediaAudio{
			Media:   msg.Audio.FileID,
			Caption: caption,
		}
	default:
		return nil
	}
}
