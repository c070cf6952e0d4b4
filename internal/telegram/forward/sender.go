package forward

import (
	"context"

	"github.com/go-telegram/bot"
	botModels "github.com/go-telegram/bot/models"
)

// Sender 出站发送接口
// 调度器与通知器只依赖此接口，便于测试替换。
type Sender interface {
	// SendAlbum 发送媒体组，返回按序的已发送消息
	SendAlbum(ctx context.Context, chatID int64, media []botModels.InputMedia) ([]*botModels.Message, error)

	// CopyTo 复制单条消息到目标，返回新消息 ID
	CopyTo(ctx context.Context, chatID, fromChatID int64, messageID int, caption string) (int, error)

	// SendText 发送纯文本消息（通知与报告使用）
	SendText(ctx context.Context, chatID int64, text string) error
}

// botSender go-telegram/bot 的 Sender 适配
type botSender struct {
	bot *bot.Bot
}

// NewBotSender 创建基于 Bot API 的发送器
func NewBotSender(b *bot.Bot) Sender {
	return &botSender{bot: b}
}

func (s *botSender) SendAlbum(ctx context.Context, chatID int64, media []botModels.InputMedia) ([]*botModels.Message, error) {
	return s.bot.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID: chatID,
		Media:  media,
	})
}

func (s *botSender) CopyTo(ctx context.Context, chatID, fromChatID int64, messageID int, caption string) (int, error) {
	params := &bot.CopyMessageParams{
		ChatID:     chatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	}
	// 不指定 caption 时 Bot API 保留原始 caption
	if caption != "" {
		params.Caption = caption
	}

	result, err := s.bot.CopyMessage(ctx, params)
	if err != nil {
		return 0, err
	}
	return int(result.ID), nil
}

func (s *botSender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}
