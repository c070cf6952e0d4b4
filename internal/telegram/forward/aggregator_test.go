package forward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	botModels "github.com/go-telegram/bot/models"
)

const testDebounce = 50 * time.Millisecond

func newTestAggregator(out chan *Batch) *Aggregator {
	return NewAggregator(
		func() time.Duration { return testDebounce },
		func(b *Batch) { out <- b },
	)
}

func groupMsg(id int, groupID string) *botModels.Message {
	return &botModels.Message{
		ID:           id,
		MediaGroupID: groupID,
		Chat:         botModels.Chat{ID: -100},
		Photo:        []botModels.PhotoSize{{FileID: "p"}},
	}
}

func waitBatch(t *testing.T, out chan *Batch) *Batch {
	t.Helper()
	select {
	case b := <-out:
		return b
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
		return nil
	}
}

// 无媒体组 ID 的消息不等待，立即产出单元素批次
func TestAggregatorSingleMessageImmediate(t *testing.T) {
	out := make(chan *Batch, 1)
	a := newTestAggregator(out)

	a.Submit(&botModels.Message{ID: 7, Chat: botModels.Chat{ID: -100}, Text: "hi"})

	select {
	case b := <-out:
		assert.False(t, b.IsGroup)
		assert.Empty(t, b.GroupID)
		require.Len(t, b.Messages, 1)
		assert.Equal(t, 7, b.Messages[0].ID)
	default:
		t.Fatal("expected immediate batch for non-group message")
	}
	assert.Equal(t, 0, a.Pending())
}

// 乱序到达的媒体组按消息 ID 升序产出
func TestAggregatorSortsOutOfOrder(t *testing.T) {
	out := make(chan *Batch, 1)
	a := newTestAggregator(out)

	a.Submit(groupMsg(5, "g1"))
	a.Submit(groupMsg(3, "g1"))
	a.Submit(groupMsg(4, "g1"))

	b := waitBatch(t, out)
	assert.True(t, b.IsGroup)
	assert.Equal(t, "g1", b.GroupID)
	require.Len(t, b.Messages, 3)
	assert.Equal(t, 3, b.Messages[0].ID)
	assert.Equal(t, 4, b.Messages[1].ID)
	assert.Equal(t, 5, b.Messages[2].ID)
}

// 窗口内的每次到达都重置定时器，最终只产出一个批次
func TestAggregatorDebounceResetsOnArrival(t *testing.T) {
	out := make(chan *Batch, 2)
	a := newTestAggregator(out)

	a.Submit(groupMsg(1, "g1"))
	time.Sleep(testDebounce / 2)
	a.Submit(groupMsg(2, "g1"))
	time.Sleep(testDebounce / 2)
	a.Submit(groupMsg(3, "g1"))

	b := waitBatch(t, out)
	assert.Len(t, b.Messages, 3)

	// 不应有第二次产出
	select {
	case extra := <-out:
		t.Fatalf("unexpected second batch with %d messages", len(extra.Messages))
	case <-time.After(3 * testDebounce):
	}
	assert.Equal(t, 0, a.Pending())
}

// 不同媒体组各自独立计时，互不干扰
func TestAggregatorIndependentGroups(t *testing.T) {
	out := make(chan *Batch, 2)
	a := newTestAggregator(out)

	a.Submit(groupMsg(1, "g1"))
	a.Submit(groupMsg(2, "g1"))
	a.Submit(groupMsg(10, "g2"))
	assert.Equal(t, 2, a.Pending())

	got := map[string]int{}
	for i := 0; i < 2; i++ {
		b := waitBatch(t, out)
		got[b.GroupID] = len(b.Messages)
	}
	assert.Equal(t, map[string]int{"g1": 2, "g2": 1}, got)
	assert.Equal(t, 0, a.Pending())
}

// 批次产出后同一媒体组 ID 重新开始聚合
func TestAggregatorGroupIDReusableAfterFlush(t *testing.T) {
	out := make(chan *Batch, 2)
	a := newTestAggregator(out)

	a.Submit(groupMsg(1, "g1"))
	first := waitBatch(t, out)
	assert.Len(t, first.Messages, 1)

	a.Submit(groupMsg(2, "g1"))
	second := waitBatch(t, out)
	require.Len(t, second.Messages, 1)
	assert.Equal(t, 2, second.Messages[0].ID)
}
