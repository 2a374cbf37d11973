package notification

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub(4)
	a, cancelA := hub.Subscribe()
	b, cancelB := hub.Subscribe()
	defer cancelA()
	defer cancelB()
	assert.Equal(t, 2, hub.Subscribers())

	hub.PublishDormsChanged()

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventDormsChanged, ev.Type)
			assert.False(t, ev.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(1)
	ch, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.PublishDormsChanged()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(1)
	ch, cancel := hub.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers())

	hub.PublishDormsChanged()
}

func TestHub_Listeners(t *testing.T) {
	hub := NewHub(1)
	var calls int32
	hub.OnPublish(func(ev Event) {
		require.Equal(t, EventDormsChanged, ev.Type)
		atomic.AddInt32(&calls, 1)
	})

	hub.PublishDormsChanged()
	hub.PublishDormsChanged()
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
