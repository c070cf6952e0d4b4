package config

import (
	"testing"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when TELEGRAM_TOKEN is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("MONGO_DB_NAME", "")
	t.Setenv("BOT_OWNER_IDS", "")
	t.Setenv("DAILY_REPORT_HOUR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MongoDBName != "forward_bot" {
		t.Fatalf("unexpected default db name: %s", cfg.MongoDBName)
	}
	if cfg.DailyReportHour != 0 {
		t.Fatalf("unexpected default report hour: %d", cfg.DailyReportHour)
	}
	if len(cfg.BotOwnerIDs) != 0 {
		t.Fatalf("expected no owner ids, got %v", cfg.BotOwnerIDs)
	}
}

func TestLoadOwnerIDs(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("BOT_OWNER_IDS", "123456789, 987654321,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.BotOwnerIDs) != 2 || cfg.BotOwnerIDs[0] != 123456789 || cfg.BotOwnerIDs[1] != 987654321 {
		t.Fatalf("unexpected owner ids: %v", cfg.BotOwnerIDs)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad owner id", key: "BOT_OWNER_IDS", value: "abc"},
		{name: "bad report hour", key: "DAILY_REPORT_HOUR", value: "25"},
		{name: "non numeric report hour", key: "DAILY_REPORT_HOUR", value: "noon"},
		{name: "bad debug flag", key: "BOT_DEBUG", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_TOKEN", "123:abc")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
