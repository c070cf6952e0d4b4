package forward

import (
	"context"
	"fmt"
	"time"

	"forward_bot/internal/logger"

	botModels "github.com/go-telegram/bot/models"
)

// Notifier 失败通知器
// 向管理员集合尽力而为地广播；单个管理员发送失败只记录日志，不向上传播。
type Notifier struct {
	sender Sender
	admins func() []int64 // 每次通知时取最新管理员集合
}

// NewNotifier 创建通知器
func NewNotifier(sender Sender, admins func() []int64) *Notifier {
	return &Notifier{sender: sender, admins: admins}
}

// NotifyFailure 将目标投递失败通知所有管理员
func (n *Notifier) NotifyFailure(ctx context.Context, src *botModels.Message, targetID int64, sendErr error) {
	chatTitle := src.Chat.Title
	if chatTitle == "" {
		chatTitle = fmt.Sprintf("%d", src.Chat.ID)
	}

	text := fmt.Sprintf(
		"❌ 转发失败通知\n\n源频道: %s\n目标频道: %d\n错误信息: %v\n时间: %s",
		chatTitle, targetID, sendErr, time.Now().Format(CaptionTimeLayout),
	)

	for _, adminID := range n.admins() {
		if err := n.sender.SendText(ctx, adminID, text); err != nil {
			logger.L().Errorf("Failed to notify admin %d: %v", adminID, err)
		}
	}
}
