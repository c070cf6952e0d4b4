package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forward_bot/internal/config"
	"forward_bot/internal/logger"
	"forward_bot/internal/telegram/forward"
	"forward_bot/internal/telegram/repository"
	"forward_bot/internal/telegram/service"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Config Telegram Bot 配置
type Config struct {
	Token           string  // Bot Token
	OwnerIDs        []int64 // Owner 用户 IDs（隐式管理员）
	DailyReportHour int     // 每日报告发送时间（小时）
	Debug           bool    // 是否开启调试模式
}

// Bot Telegram Bot 服务
// 持有转发管线与全部命令处理器；消息入口是默认 handler。
type Bot struct {
	bot *bot.Bot
	db  *mongo.Database

	channelRepo   repository.ChannelRepository
	userRepo      repository.UserRepository
	deliveryLog   repository.DeliveryLogRepository
	configService service.ConfigService

	pipeline *forward.Pipeline
	stats    *forward.Stats

	workerPool *WorkerPool
	scheduler  *dailyReportScheduler

	startTime time.Time

	dispatchCtx    context.Context
	dispatchCancel context.CancelFunc
}

// New 创建 Telegram Bot 实例
func New(cfg Config, db *mongo.Database) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token cannot be empty")
	}

	channelRepo := repository.NewChannelRepository(db)
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	deliveryLog := repository.NewDeliveryLogRepository(db)

	configService := service.NewConfigService(channelRepo, userRepo, settingsRepo, cfg.OwnerIDs)

	dispatchCtx, dispatchCancel := context.WithCancel(context.Background())

	telegramBot := &Bot{
		db:             db,
		channelRepo:    channelRepo,
		userRepo:       userRepo,
		deliveryLog:    deliveryLog,
		configService:  configService,
		stats:          forward.NewStats(),
		workerPool:     NewWorkerPool(10, 100),
		dispatchCtx:    dispatchCtx,
		dispatchCancel: dispatchCancel,
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(telegramBot.asyncHandler(telegramBot.handleIncoming)),
	}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(cfg.Token, opts...)
	if err != nil {
		dispatchCancel()
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	telegramBot.bot = b

	// 转发管线：聚合 → 过滤 → 调度
	sender := forward.NewBotSender(b)
	notifier := forward.NewNotifier(sender, configService.Admins)
	limiter := forward.NewRateLimiter(0, time.Minute)
	dispatcher := forward.NewDispatcher(sender, deliveryLog, notifier, limiter, telegramBot.stats)
	telegramBot.pipeline = forward.NewPipeline(dispatchCtx, configService, dispatcher, forward.NewFilterEngine(), telegramBot.stats)

	telegramBot.scheduler = newDailyReportScheduler(telegramBot, cfg.DailyReportHour)

	// 初始化数据库索引
	if err := telegramBot.ensureIndexes(context.Background()); err != nil {
		dispatchCancel()
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// 加载频道/管理员/设置到内存快照
	if err := configService.Load(context.Background()); err != nil {
		dispatchCancel()
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	telegramBot.registerHandlers()

	logger.L().Infof("Telegram bot initialized: sources=%d, targets=%d, admins=%d",
		len(configService.SourceChannels()), len(configService.TargetChannels()), len(configService.Admins()))
	return telegramBot, nil
}

// InitFromConfig 从应用配置初始化 Telegram Bot
func InitFromConfig(cfg *config.Config, db *mongo.Database) (*Bot, error) {
	telegramCfg := Config{
		Token:           cfg.TelegramToken,
		OwnerIDs:        cfg.BotOwnerIDs,
		DailyReportHour: cfg.DailyReportHour,
		Debug:           cfg.Debug,
	}
	return New(telegramCfg, db)
}

// Start 启动 Bot（阻塞式，应在 goroutine 中运行）
func (b *Bot) Start(ctx context.Context) error {
	b.startTime = time.Now()
	b.scheduler.start()

	logger.L().Info("Starting Telegram bot...")
	b.bot.Start(ctx)
	logger.L().Info("Telegram bot stopped")
	return nil
}

// Stop 停止 Bot
// 顺序：停调度器 → 停工作池（排空在途 handler）→ 取消在途投递。
// 仍在防抖窗口内的媒体组随进程丢弃，不做持久化恢复。
func (b *Bot) Stop(ctx context.Context) error {
	logger.L().Info("Stopping Telegram bot...")

	b.scheduler.stop()
	b.workerPool.Shutdown()
	b.dispatchCancel()

	if pending := b.pipeline.PendingGroups(); pending > 0 {
		logger.L().Warnf("Dropping %d media groups still buffering at shutdown", pending)
	}
	return nil
}

// handleIncoming 默认 handler：源频道消息进入转发管线
// 非源频道的消息只在 debug 级别记录 chat ID，方便配置时查 ID。
func (b *Bot) handleIncoming(ctx context.Context, botInstance *bot.Bot, update *botModels.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil {
		return
	}

	// 命令由注册的 handler 处理
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	if !b.configService.IsSource(msg.Chat.ID) {
		logger.L().Debugf("Message from unconfigured chat ignored: chat_id=%d, title=%q", msg.Chat.ID, msg.Chat.Title)
		return
	}

	// 回填频道名称，来源信息与通知文本使用
	b.configService.NoteChannelTitle(ctx, msg.Chat.ID, msg.Chat.Title)

	b.pipeline.Submit(msg)
}

// ensureIndexes 确保所有数据库索引存在
func (b *Bot) ensureIndexes(ctx context.Context) error {
	if err := b.channelRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure channel indexes: %w", err)
	}
	logger.L().Debug("Channel indexes ensured")

	if err := b.userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure user indexes: %w", err)
	}
	logger.L().Debug("User indexes ensured")

	if err := b.deliveryLog.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure delivery log indexes: %w", err)
	}
	logger.L().Debug("Delivery log indexes ensured")

	return nil
}
