package forward

import (
	"fmt"
	"strings"
	"time"

	"forward_bot/internal/telegram/models"

	botModels "github.com/go-telegram/bot/models"
)

// CaptionTimeLayout 来源信息里的时间格式
const CaptionTimeLayout = "2006-01-02 15:04:05"

// BuildCaption 构建转发消息的说明文字
// add_source_info 关闭时原样返回 caption/text；开启时追加来源频道、
// 发送者（preserve_sender 开启时）与时间。输出为纯文本，发送时不携带
// parse mode，因此无需转义。
func BuildCaption(settings models.ForwardSettings, msg *botModels.Message) string {
	original := msg.Caption
	if original == "" && msg.Text != "" {
		original = msg.Text
	}

	if !settings.AddSourceInfo {
		return original
	}

	chatTitle := msg.Chat.Title
	if chatTitle == "" {
		chatTitle = fmt.Sprintf("%d", msg.Chat.ID)
	}

	var sb strings.Builder
	sb.WriteString(original)
	sb.WriteString("\n\n📢 来源: ")
	sb.WriteString(chatTitle)

	if settings.PreserveSender && msg.From != nil {
		sb.WriteString("\n👤 发送者: ")
		sb.WriteString(senderName(msg.From))
	}

	sb.WriteString("\n🕐 时间: ")
	sb.WriteString(messageTime(msg).Format(CaptionTimeLayout))

	return sb.String()
}

// senderName 返回发送者展示名（姓+名，退化到 username/ID）
func senderName(user *botModels.User) string {
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name != "" {
		return name
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return fmt.Sprintf("%d", user.ID)
}

// messageTime 返回消息发送时间
func messageTime(msg *botModels.Message) time.Time {
	if msg.Date > 0 {
		return time.Unix(int64(msg.Date), 0)
	}
	return time.Now()
}
