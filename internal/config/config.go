package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config 应用程序配置
type Config struct {
	TelegramToken   string  // Telegram Bot API Token
	BotOwnerIDs     []int64 // Bot 管理员ID列表（环境变量级，隐式管理员）
	MongoURI        string  // MongoDB连接URI
	MongoDBName     string  // MongoDB数据库名称
	DailyReportHour int     // 每日报告发送时间（小时，0-23）
	Debug           bool    // 是否开启调试模式
}

// Load 从环境变量加载配置
// Token 缺失是唯一的致命启动错误；其余均有默认值。
func Load() (*Config, error) {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN"))
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "forward_bot"
	}

	cfg := &Config{
		TelegramToken:   token,
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDBName:     mongoDBName,
		DailyReportHour: 0,
	}

	// 解析BOT_OWNER_IDS
	ownerIDsStr := os.Getenv("BOT_OWNER_IDS")
	if ownerIDsStr != "" {
		var err error
		cfg.BotOwnerIDs, err = parseOwnerIDs(ownerIDsStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse BOT_OWNER_IDS: %w", err)
		}
	}

	// 解析DAILY_REPORT_HOUR（默认 0 点）
	if hourStr := strings.TrimSpace(os.Getenv("DAILY_REPORT_HOUR")); hourStr != "" {
		hour, err := strconv.Atoi(hourStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DAILY_REPORT_HOUR: %w", err)
		}
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("DAILY_REPORT_HOUR must be in [0,23], got %d", hour)
		}
		cfg.DailyReportHour = hour
	}

	if debugStr := strings.TrimSpace(os.Getenv("BOT_DEBUG")); debugStr != "" {
		value, err := strconv.ParseBool(debugStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse BOT_DEBUG: %w", err)
		}
		cfg.Debug = value
	}

	return cfg, nil
}

// parseOwnerIDs 解析逗号分隔的用户ID字符串
// 支持格式: "123456789" 或 "123456789,987654321"
func parseOwnerIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid owner ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
