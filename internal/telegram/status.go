package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultNetworkProbeURL = "https://api.telegram.org"

// buildStatusMessage 构建 /status 命令的响应文本
func (b *Bot) buildStatusMessage(ctx context.Context) string {
	lines := []string{"🤖 Bot 运行状态"}

	if !b.startTime.IsZero() {
		uptime := time.Since(b.startTime)
		lines = append(lines, fmt.Sprintf("⏱ 运行时间: %s", formatDuration(uptime)))
	}

	lines = append(lines, fmt.Sprintf("📥 源频道: %d 个", len(b.configService.SourceChannels())))
	lines = append(lines, fmt.Sprintf("📤 目标频道: %d 个", len(b.configService.TargetChannels())))
	lines = append(lines, fmt.Sprintf("👥 管理员: %d 人", len(b.configService.Admins())))

	snap := b.stats.Snapshot()
	lines = append(lines, fmt.Sprintf("📨 收到 %d / 转发 %d / 失败 %d", snap.MessagesReceived, snap.MessagesForwarded, snap.FailedForwards))

	if pending := b.pipeline.PendingGroups(); pending > 0 {
		lines = append(lines, fmt.Sprintf("📦 聚合中的媒体组: %d 个", pending))
	}

	if b.workerPool != nil {
		stats := b.workerPool.Stats()
		lines = append(lines, fmt.Sprintf("🛠 工作池: %d 个协程，队列 %d/%d", stats.Workers, stats.QueueLength, stats.QueueCapacity))
	}

	if b.db != nil {
		dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := b.db.Client().Ping(dbCtx, nil); err != nil {
			lines = append(lines, fmt.Sprintf("🗄 数据库: ⚠️ %v", err))
		} else {
			lines = append(lines, "🗄 数据库: ✅ 正常")
		}
	}

	networkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	latency, statusCode, err := probeNetwork(networkCtx, defaultNetworkProbeURL)
	if err != nil {
		lines = append(lines, fmt.Sprintf("🌐 网络: ⚠️ 测速失败 (%v)", err))
	} else {
		lines = append(lines, fmt.Sprintf("🌐 网络延迟: %s（HTTP %d）", latency.Round(time.Millisecond), statusCode))
	}

	return strings.Join(lines, "\n")
}

// buildStatsMessage 构建 /stats 命令的响应文本
// 进程内计数器 + 最近 24 小时的投递日志聚合。
func (b *Bot) buildStatsMessage(ctx context.Context) string {
	snap := b.stats.Snapshot()

	var sb strings.Builder
	sb.WriteString("📊 转发统计\n\n")
	sb.WriteString(fmt.Sprintf("⏱ 运行时间: %s\n", formatDuration(snap.Uptime)))
	sb.WriteString(fmt.Sprintf("📨 收到消息: %d\n", snap.MessagesReceived))
	sb.WriteString(fmt.Sprintf("✅ 已转发: %d\n", snap.MessagesForwarded))
	sb.WriteString(fmt.Sprintf("❌ 转发失败: %d\n", snap.FailedForwards))
	sb.WriteString(fmt.Sprintf("📦 媒体组: %d\n", snap.MediaGroupsForwarded))

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if stats, err := b.deliveryLog.CountByTimeRange(dbCtx, from, to); err == nil && stats.Total > 0 {
		sb.WriteString(fmt.Sprintf("\n🗓 最近 24 小时: %d 条投递，成功率 %.1f%%\n", stats.Total, stats.SuccessRate()))

		if kinds, err := b.deliveryLog.GroupByContentKind(dbCtx, from, to); err == nil && len(kinds) > 0 {
			sb.WriteString("\n按类型:\n")
			for _, kc := range kinds {
				sb.WriteString(fmt.Sprintf("  %s: %d\n", kc.ContentKind, kc.Count))
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// probeNetwork 测试与指定地址的网络连通性，返回耗时与状态码
func probeNetwork(ctx context.Context, target string) (time.Duration, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, 0, err
	}

	client := &http.Client{Timeout: 3 * time.Second}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return time.Since(start), resp.StatusCode, nil
}

// formatDuration 将持续时间格式化为人类可读的字符串
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d天", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d小时", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d分钟", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d秒", seconds))
	}

	return strings.Join(parts, " ")
}
