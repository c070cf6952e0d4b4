package forward

import (
	"strings"

	"forward_bot/internal/telegram/models"

	botModels "github.com/go-telegram/bot/models"
)

// Rule 消费方自定义的过滤规则扩展点
// 返回 true 表示该批次应被拦截。
type Rule interface {
	Suppress(msg *botModels.Message, kind ContentKind) bool
}

// RuleFunc 函数式 Rule 适配器
type RuleFunc func(msg *botModels.Message, kind ContentKind) bool

// Suppress 实现 Rule
func (f RuleFunc) Suppress(msg *botModels.Message, kind ContentKind) bool {
	return f(msg, kind)
}

// FilterEngine 批次过滤引擎
// 内置规则读取配置快照（内容类型黑名单、关键词），extra 为消费方扩展规则。
type FilterEngine struct {
	extra []Rule
}

// NewFilterEngine 创建过滤引擎
func NewFilterEngine(extra ...Rule) *FilterEngine {
	return &FilterEngine{extra: extra}
}

// ShouldSuppress 判断消息是否应被拦截
// 每个批次以首条消息的分类评估一次。
func (e *FilterEngine) ShouldSuppress(settings models.ForwardSettings, msg *botModels.Message, kind ContentKind) bool {
	// 内容类型过滤
	for _, blocked := range settings.FilterContentTypes {
		if blocked == string(kind) {
			return true
		}
	}

	// 关键词过滤（大小写不敏感的子串匹配）
	if msg.Text != "" && len(settings.KeywordFilter) > 0 {
		textLower := strings.ToLower(msg.Text)
		for _, keyword := range settings.KeywordFilter {
			if keyword == "" {
				continue
			}
			if strings.Contains(textLower, strings.ToLower(keyword)) {
				return true
			}
		}
	}

	for _, rule := range e.extra {
		if rule.Suppress(msg, kind) {
			return true
		}
	}

	return false
}

// MaxAttachmentSize 附件大小上限规则（字节）
// 默认流程未启用，消费方可通过 NewFilterEngine 挂载。
func MaxAttachmentSize(maxBytes int64) Rule {
	return RuleFunc(func(msg *botModels.Message, kind ContentKind) bool {
		if maxBytes <= 0 {
			return false
		}
		return attachmentSize(msg) > maxBytes
	})
}

// BlockSenders 发送者黑名单规则
func BlockSenders(ids ...int64) Rule {
	blocked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		blocked[id] = struct{}{}
	}
	return RuleFunc(func(msg *botModels.Message, kind ContentKind) bool {
		if msg.From == nil {
			return false
		}
		_, ok := blocked[msg.From.ID]
		return ok
	})
}

// attachmentSize 返回消息附件的大小（字节），无附件时为 0
func attachmentSize(msg *botModels.Message) int64 {
	switch {
	case msg.Document != nil:
		return int64(msg.Document.FileSize)
	case msg.Video != nil:
		return int64(msg.Video.FileSize)
	case msg.Audio != nil:
		return int64(msg.Audio.FileSize)
	case msg.Voice != nil:
		return int64(msg.Voice.FileSize)
	case msg.Animation != nil:
		return int64(msg.Animation.FileSize)
	case len(msg.Photo) > 0:
		// 取最大尺寸
		return int64(msg.Photo[len(msg.Photo)-1].FileSize)
	default:
		return 0
	}
}
