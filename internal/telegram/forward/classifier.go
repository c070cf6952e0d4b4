package forward

import (
	botModels "github.com/go-telegram/bot/models"
)

// ContentKind 消息内容类型
type ContentKind string

const (
	KindText      ContentKind = "text"
	KindPhoto     ContentKind = "photo"
	KindVideo     ContentKind = "video"
	KindDocument  ContentKind = "document"
	KindAudio     ContentKind = "audio"
	KindVoice     ContentKind = "voice"
	KindSticker   ContentKind = "sticker"
	KindAnimation ContentKind = "animation"
	KindLocation  ContentKind = "location"
	KindPoll      ContentKind = "poll"
	KindOther     ContentKind = "other"
)

// Classify 识别消息内容类型，按固定优先级取第一个命中项。
// 纯函数，无副作用。
func Classify(msg *botModels.Message) ContentKind {
	switch {
	case msg.Text != "":
		return KindText
	case len(msg.Photo) > 0:
		return KindPhoto
	case msg.Video != nil:
		return KindVideo
	case msg.Document != nil:
		return KindDocument
	case msg.Audio != nil:
		return KindAudio
	case msg.Voice != nil:
		return KindVoice
	case msg.Sticker != nil:
		return KindSticker
	case msg.Animation != nil:
		return KindAnimation
	case msg.Location != nil:
		return KindLocation
	case msg.Poll != nil:
		return KindPoll
	default:
		return KindOther
	}
}
