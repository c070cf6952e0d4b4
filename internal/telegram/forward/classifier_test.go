package forward

import (
	"testing"

	"github.com/stretchr/testify/assert"

	botModels "github.com/go-telegram/bot/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  *botModels.Message
		want ContentKind
	}{
		{"text", &botModels.Message{Text: "hello"}, KindText},
		{"photo", &botModels.Message{Photo: []botModels.PhotoSize{{FileID: "p"}}}, KindPhoto},
		{"video", &botModels.Message{Video: &botModels.Video{FileID: "v"}}, KindVideo},
		{"document", &botModels.Message{Document: &botModels.Document{FileID: "d"}}, KindDocument},
		{"audio", &botModels.Message{Audio: &botModels.Audio{FileID: "a"}}, KindAudio},
		{"voice", &botModels.Message{Voice: &botModels.Voice{FileID: "vc"}}, KindVoice},
		{"sticker", &botModels.Message{Sticker: &botModels.Sticker{FileID: "s"}}, KindSticker},
		{"animation", &botModels.Message{Animation: &botModels.Animation{FileID: "an"}}, KindAnimation},
		{"location", &botModels.Message{Location: &botModels.Location{}}, KindLocation},
		{"poll", &botModels.Message{Poll: &botModels.Poll{}}, KindPoll},
		{"empty", &botModels.Message{}, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.msg))
		})
	}
}

// 文本优先于附件：带 caption 的照片仍是照片，带 text 的消息永远是文本
func TestClassifyPriority(t *testing.T) {
	msg := &botModels.Message{
		Text:  "note",
		Photo: []botModels.PhotoSize{{FileID: "p"}},
	}
	assert.Equal(t, KindText, Classify(msg))

	captioned := &botModels.Message{
		Caption: "note",
		Photo:   []botModels.PhotoSize{{FileID: "p"}},
	}
	assert.Equal(t, KindPhoto, Classify(captioned))
}
