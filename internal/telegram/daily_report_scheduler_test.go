package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextReportRunSameDay(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 1, 7, 30, 0, 0, loc)

	next := nextReportRun(now, 9, loc)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 5, 0, loc), next)
}

func TestNextReportRunRollsToNextDay(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, loc)

	next := nextReportRun(now, 9, loc)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 5, 0, loc), next)
}

func TestNextReportRunExactBoundary(t *testing.T) {
	loc := time.UTC
	// 恰好在触发时刻，应排到次日而不是立即重复触发
	now := time.Date(2025, 6, 1, 9, 0, 5, 0, loc)

	next := nextReportRun(now, 9, loc)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 5, 0, loc), next)
}

func TestNewDailyReportSchedulerClampsHour(t *testing.T) {
	s := newDailyReportScheduler(nil, 25)
	assert.Equal(t, 0, s.hour)

	s = newDailyReportScheduler(nil, -1)
	assert.Equal(t, 0, s.hour)

	s = newDailyReportScheduler(nil, 23)
	assert.Equal(t, 23, s.hour)
}
