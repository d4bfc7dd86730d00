package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/boot"
	"chatrelay/internal/model"
)

func testConfig(t *testing.T) *boot.Config {
	t.Helper()
	return &boot.Config{DataDir: t.TempDir()}
}

func TestMessageStoreAppendAndQuery(t *testing.T) {
	req := require.New(t)

	store, err := NewMessageStore(testConfig(t))
	req.NoError(err)

	first := &model.Message{ID: model.CreateID(), Group: "lobby", Text: "hello", Status: model.MessageStatusDelivered}
	second := &model.Message{ID: model.CreateID(), Group: "lobby", Text: "world", Status: model.MessageStatusDelivered}
	other := &model.Message{ID: model.CreateID(), Group: "other", Text: "elsewhere", Status: model.MessageStatusDelivered}

	req.NoError(store.Append(first))
	req.NoError(store.Append(second))
	req.NoError(store.Append(other))

	t.Run("log order per group", func(t *testing.T) {
		messages := store.Query("lobby")
		req.Len(messages, 2)
		req.Equal(first.ID, messages[0].ID)
		req.Equal(second.ID, messages[1].ID)
		req.False(messages[1].Timestamp.Before(messages[0].Timestamp))
	})

	t.Run("group filter", func(t *testing.T) {
		req.Len(store.Query("other"), 1)
		req.Empty(store.Query("nowhere"))
	})
}

func TestMessageStoreRejectsEmptyGroup(t *testing.T) {
	req := require.New(t)

	store, err := NewMessageStore(testConfig(t))
	req.NoError(err)

	err = store.Append(&model.Message{ID: model.CreateID(), Group: "  ", Text: "void"})
	req.ErrorIs(err, model.ErrorEmptyMessageGroup)
	req.Empty(store.Query("  "))
}

func TestMessageStoreSurvivesRestart(t *testing.T) {
	req := require.New(t)
	config := testConfig(t)

	store, err := NewMessageStore(config)
	req.NoError(err)

	msg := &model.Message{ID: model.CreateID(), Group: "lobby", Text: "durable", Status: model.MessageStatusDelivered}
	req.NoError(store.Append(msg))

	reopened, err := NewMessageStore(config)
	req.NoError(err)

	messages := reopened.Query("lobby")
	req.Len(messages, 1)
	req.Equal(msg.ID, messages[0].ID)
	req.Equal("durable", messages[0].Text)
}

func TestMessageStoreConcurrentAppends(t *testing.T) {
	req := require.New(t)
	config := testConfig(t)

	store, err := NewMessageStore(config)
	req.NoError(err)

	const writers = 4
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				msg := &model.Message{
					ID:     model.CreateID(),
					Group:  "busy",
					Text:   fmt.Sprintf("writer %d message %d", w, i),
					Status: model.MessageStatusDelivered,
				}
				if err := store.Append(msg); err != nil {
					t.Errorf("append: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	messages := store.Query("busy")
	req.Len(messages, writers*perWriter)

	for i := 1; i < len(messages); i++ {
		req.False(messages[i].Timestamp.Before(messages[i-1].Timestamp),
			"timestamps must be non-decreasing in log order")
	}

	reopened, err := NewMessageStore(config)
	req.NoError(err)
	req.Len(reopened.Query("busy"), writers*perWriter)
}

func TestMessageStoreClampsBackwardsClock(t *testing.T) {
	req := require.New(t)

	store, err := NewMessageStore(testConfig(t))
	req.NoError(err)

	base := time.Now().UTC()
	times := []time.Time{base, base.Add(-time.Minute)}
	idx := 0
	store.now = func() time.Time {
		ts := times[idx]
		if idx < len(times)-1 {
			idx++
		}
		return ts
	}

	req.NoError(store.Append(&model.Message{ID: model.CreateID(), Group: "lobby", Text: "a"}))
	req.NoError(store.Append(&model.Message{ID: model.CreateID(), Group: "lobby", Text: "b"}))

	messages := store.Query("lobby")
	req.Len(messages, 2)
	req.False(messages[1].Timestamp.Before(messages[0].Timestamp))
}
