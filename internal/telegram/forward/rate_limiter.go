package forward

import (
	"context"
	"sync"
	"time"
)

// RateLimiter 滑动窗口速率限制器
// 维护最近一个窗口内的发送时间戳；窗口内数量达到上限时阻塞调用方，
// 直到最早的时间戳滑出窗口。用于控制每分钟最大转发数。
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time // 升序
}

// NewRateLimiter 创建速率限制器
// limit <= 0 表示不限速；window 通常为一分钟。
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
	}
}

// SetLimit 更新窗口上限（批次开始时按配置快照调用）
func (r *RateLimiter) SetLimit(limit int) {
	r.mu.Lock()
	r.limit = limit
	r.mu.Unlock()
}

// Wait 阻塞直到窗口内有可用容量或上下文取消
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		r.prune(now)

		if r.limit <= 0 || len(r.stamps) < r.limit {
			r.stamps = append(r.stamps, now)
			r.mu.Unlock()
			return nil
		}

		// 等到最早的时间戳滑出窗口后重试
		wait := r.stamps[0].Add(r.window).Sub(now)
		r.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// prune 丢弃窗口外的时间戳（调用方持锁）
func (r *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.stamps) && !r.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.stamps = append(r.stamps[:0], r.stamps[i:]...)
	}
}
