package service

import (
	"context"
	"fmt"
	"sync"

	"forward_bot/internal/logger"
	"forward_bot/internal/telegram/models"
	"forward_bot/internal/telegram/repository"
)

// configService ConfigService 的 MongoDB 实现
type configService struct {
	channelRepo  repository.ChannelRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	ownerIDs     []int64

	mu       sync.RWMutex
	settings models.BotSettings
	sources  []*models.Channel
	targets  []*models.Channel
	admins   []*models.User
}

// NewConfigService 创建配置服务
// ownerIDs 来自环境变量，是隐式管理员，不落库。
func NewConfigService(
	channelRepo repository.ChannelRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	ownerIDs []int64,
) ConfigService {
	return &configService{
		channelRepo:  channelRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		ownerIDs:     append([]int64(nil), ownerIDs...),
	}
}

// Load 从持久层加载全部配置到内存
func (s *configService) Load(ctx context.Context) error {
	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	sources, err := s.channelRepo.List(ctx, models.ChannelKindSource)
	if err != nil {
		return fmt.Errorf("load source channels: %w", err)
	}

	targets, err := s.channelRepo.List(ctx, models.ChannelKindTarget)
	if err != nil {
		return fmt.Errorf("load target channels: %w", err)
	}

	admins, err := s.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}

	s.mu.Lock()
	s.settings = *settings
	s.sources = sources
	s.targets = targets
	s.admins = admins
	s.mu.Unlock()

	logger.L().Infof("Config loaded: sources=%d targets=%d admins=%d", len(sources), len(targets), len(admins))
	return nil
}

// ForwardSettings 返回当前转发配置的快照
func (s *configService) ForwardSettings() models.ForwardSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.settings.Forward
	snapshot.FilterContentTypes = append([]string(nil), s.settings.Forward.FilterContentTypes...)
	snapshot.KeywordFilter = append([]string(nil), s.settings.Forward.KeywordFilter...)
	return snapshot
}

// NotificationSettings 返回当前通知配置的快照
func (s *configService) NotificationSettings() models.NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Notification
}

// SourceChannels 返回源频道列表副本
func (s *configService) SourceChannels() []*models.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyChannels(s.sources)
}

// TargetChannels 返回目标频道列表副本
func (s *configService) TargetChannels() []*models.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyChannels(s.targets)
}

// Targets 返回目标频道 ID 的有序副本
func (s *configService) Targets() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.targets))
	for _, ch := range s.targets {
		ids = append(ids, ch.ChatID)
	}
	return ids
}

// Admins 返回管理员 ID 的副本（Owner 在前，去重）
func (s *configService) Admins() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{}, len(s.ownerIDs)+len(s.admins))
	ids := make([]int64, 0, len(s.ownerIDs)+len(s.admins))
	for _, id := range s.ownerIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, admin := range s.admins {
		if _, ok := seen[admin.TelegramID]; !ok {
			seen[admin.TelegramID] = struct{}{}
			ids = append(ids, admin.TelegramID)
		}
	}
	return ids
}

// AdminUsers 返回持久化的管理员记录副本
func (s *configService) AdminUsers() []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, len(s.admins))
	for i, admin := range s.admins {
		clone := *admin
		out[i] = &clone
	}
	return out
}

// IsSource 判断 chat 是否为已配置的源频道
func (s *configService) IsSource(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.sources {
		if ch.ChatID == chatID {
			return true
		}
	}
	return false
}

// IsAdmin 判断用户是否为管理员（含 Owner）
func (s *configService) IsAdmin(telegramID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.ownerIDs {
		if id == telegramID {
			return true
		}
	}
	for _, admin := range s.admins {
		if admin.TelegramID == telegramID {
			return true
		}
	}
	return false
}

// AddSource 添加源频道
func (s *configService) AddSource(ctx context.Context, chatID int64) error {
	return s.addChannel(ctx, chatID, models.ChannelKindSource)
}

// RemoveSource 移除源频道
func (s *configService) RemoveSource(ctx context.Context, chatID int64) error {
	return s.removeChannel(ctx, chatID, models.ChannelKindSource)
}

// AddTarget 添加目标频道
func (s *configService) AddTarget(ctx context.Context, chatID int64) error {
	return s.addChannel(ctx, chatID, models.ChannelKindTarget)
}

// RemoveTarget 移除目标频道
func (s *configService) RemoveTarget(ctx context.Context, chatID int64) error {
	return s.removeChannel(ctx, chatID, models.ChannelKindTarget)
}

func (s *configService) addChannel(ctx context.Context, chatID int64, kind models.ChannelKind) error {
	channel := &models.Channel{ChatID: chatID, Kind: kind}

	// 先持久化，成功后才更新内存
	if err := s.channelRepo.Add(ctx, channel); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == models.ChannelKindSource {
		s.sources = append(s.sources, channel)
	} else {
		s.targets = append(s.targets, channel)
	}
	return nil
}

func (s *configService) removeChannel(ctx context.Context, chatID int64, kind models.ChannelKind) error {
	if err := s.channelRepo.Remove(ctx, chatID, kind); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == models.ChannelKindSource {
		s.sources = dropChannel(s.sources, chatID)
	} else {
		s.targets = dropChannel(s.targets, chatID)
	}
	return nil
}

// AddAdmin 添加管理员
func (s *configService) AddAdmin(ctx context.Context, telegramID int64, addedBy int64) error {
	user := &models.User{
		TelegramID: telegramID,
		Role:       models.RoleAdmin,
		AddedBy:    addedBy,
	}

	if err := s.userRepo.Add(ctx, user); err != nil {
		return err
	}

	s.mu.Lock()
	s.admins = append(s.admins, user)
	s.mu.Unlock()
	return nil
}

// RemoveAdmin 移除管理员
// Owner 来自环境变量、不落库，不能通过命令移除。
func (s *configService) RemoveAdmin(ctx context.Context, telegramID int64) error {
	for _, ownerID := range s.ownerIDs {
		if ownerID == telegramID {
			return fmt.Errorf("owner cannot be removed")
		}
	}

	if err := s.userRepo.Remove(ctx, telegramID); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.admins[:0]
	for _, admin := range s.admins {
		if admin.TelegramID != telegramID {
			kept = append(kept, admin)
		}
	}
	s.admins = kept
	s.mu.Unlock()
	return nil
}

// SetDelay 设置转发延迟（秒）
func (s *configService) SetDelay(ctx context.Context, seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	return s.updateSettings(ctx, func(settings *models.BotSettings) {
		settings.Forward.DelaySeconds = seconds
	})
}

// ToggleSourceInfo 切换来源信息显示，返回切换后的状态
func (s *configService) ToggleSourceInfo(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.updateSettings(ctx, func(settings *models.BotSettings) {
		settings.Forward.AddSourceInfo = !settings.Forward.AddSourceInfo
		enabled = settings.Forward.AddSourceInfo
	})
	return enabled, err
}

// updateSettings 在内存副本上应用变更，持久化成功后再提交到内存
func (s *configService) updateSettings(ctx context.Context, mutate func(*models.BotSettings)) error {
	s.mu.RLock()
	updated := s.settings
	updated.Forward.FilterContentTypes = append([]string(nil), s.settings.Forward.FilterContentTypes...)
	updated.Forward.KeywordFilter = append([]string(nil), s.settings.Forward.KeywordFilter...)
	s.mu.RUnlock()

	mutate(&updated)

	if err := s.settingsRepo.Save(ctx, &updated); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = updated
	s.mu.Unlock()
	return nil
}

// NoteChannelTitle 回填频道名称（尽力而为，失败仅记录日志）
func (s *configService) NoteChannelTitle(ctx context.Context, chatID int64, title string) {
	if title == "" {
		return
	}

	s.mu.Lock()
	updated := false
	for _, ch := range s.sources {
		if ch.ChatID == chatID && ch.Title != title {
			ch.Title = title
			updated = true
		}
	}
	s.mu.Unlock()

	if !updated {
		return
	}

	if err := s.channelRepo.UpdateTitle(ctx, chatID, models.ChannelKindSource, title); err != nil {
		logger.L().Warnf("Failed to persist channel title for %d: %v", chatID, err)
	}
}

func copyChannels(in []*models.Channel) []*models.Channel {
	out := make([]*models.Channel, len(in))
	for i, ch := range in {
		clone := *ch
		out[i] = &clone
	}
	return out
}

func dropChannel(in []*models.Channel, chatID int64) []*models.Channel {
	out := in[:0]
	for _, ch := range in {
		if ch.ChatID != chatID {
			out = append(out, ch)
		}
	}
	return out
}
