package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forward_bot/internal/logger"
)

// dailyReportScheduler 每日转发报告调度器
// 每天在配置的整点汇总前一天的投递日志，推送到报告频道（未配置时逐个发给管理员）。
type dailyReportScheduler struct {
	bot      *Bot
	hour     int
	cancel   context.CancelFunc
	done     chan struct{}
	location *time.Location
}

func newDailyReportScheduler(bot *Bot, hour int) *dailyReportScheduler {
	if hour < 0 || hour > 23 {
		hour = 0
	}
	return &dailyReportScheduler{
		bot:      bot,
		hour:     hour,
		location: time.Local,
	}
}

func (s *dailyReportScheduler) start() {
	if s == nil {
		return
	}
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	logger.L().Infof("Daily report scheduler started, report hour: %02d:00", s.hour)
}

func (s *dailyReportScheduler) stop() {
	if s == nil {
		return
	}
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	logger.L().Info("Daily report scheduler stopped")
}

func (s *dailyReportScheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		now := time.Now().In(s.location)
		next := nextReportRun(now, s.hour, s.location)
		wait := time.Until(next)
		if wait <= 0 {
			wait = time.Second
		}

		timer := time.NewTimer(wait)
		logger.L().Debugf("Daily report waiting %s until %s", wait.String(), next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.dispatch(ctx)
		}
	}
}

func (s *dailyReportScheduler) dispatch(parent context.Context) {
	if parent.Err() != nil {
		return
	}

	if !s.bot.configService.NotificationSettings().DailyReport {
		logger.L().Info("Daily report skipped: disabled in settings")
		return
	}

	runCtx, cancel := context.WithTimeout(parent, 2*time.Minute)
	defer cancel()

	message, err := s.buildReport(runCtx)
	if err != nil {
		logger.L().Errorf("Daily report build failed: %v", err)
		return
	}

	notif := s.bot.configService.NotificationSettings()
	if notif.ReportChannel != 0 {
		s.bot.sendMessage(runCtx, notif.ReportChannel, message)
		logger.L().Infof("Daily report sent to channel %d", notif.ReportChannel)
		return
	}

	admins := s.bot.configService.Admins()
	for _, adminID := range admins {
		if runCtx.Err() != nil {
			logger.L().Warn("Daily report aborted: context canceled")
			return
		}
		s.bot.sendMessage(runCtx, adminID, message)
	}
	logger.L().Infof("Daily report sent to %d admins", len(admins))
}

// buildReport 汇总前一天（本地时区整天）的投递日志
func (s *dailyReportScheduler) buildReport(ctx context.Context) (string, error) {
	now := time.Now().In(s.location)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	from := midnight.AddDate(0, 0, -1)

	stats, err := s.bot.deliveryLog.CountByTimeRange(ctx, from, midnight)
	if err != nil {
		return "", fmt.Errorf("count delivery log: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 每日转发报告 (%s)\n\n", from.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("投递总数: %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("成功: %d\n", stats.Success))
	sb.WriteString(fmt.Sprintf("失败: %d\n", stats.Total-stats.Success))
	sb.WriteString(fmt.Sprintf("成功率: %.1f%%\n", stats.SuccessRate()))

	kinds, err := s.bot.deliveryLog.GroupByContentKind(ctx, from, midnight)
	if err != nil {
		logger.L().Warnf("Daily report content kind breakdown failed: %v", err)
	} else if len(kinds) > 0 {
		sb.WriteString("\n按类型:\n")
		for _, kc := range kinds {
			label := kc.ContentKind
			if kc.IsMediaGroup {
				label += " (媒体组)"
			}
			sb.WriteString(fmt.Sprintf("  %s: %d\n", label, kc.Count))
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func nextReportRun(now time.Time, hour int, location *time.Location) time.Time {
	local := now.In(location)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 5, 0, location)
	if !next.After(local) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
