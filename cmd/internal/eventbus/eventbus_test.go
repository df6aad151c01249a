package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryTopicNamesRoundTrip(t *testing.T) {
	topic := NewTopic("console.events")

	topics := topic.RetryTopics()
	require.Len(t, topics, len(RetryDelays))
	for i, name := range topics {
		assert.Equal(t, "console.events.retry."+string(rune('1'+i)), name)
		delay, ok := RetryDelayOf(name)
		require.True(t, ok, name)
		assert.Equal(t, RetryDelays[i], delay)
	}

	_, err := topic.RetryTopic(len(RetryDelays) + 1)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
	assert.Equal(t, "console.events.dlq", topic.DLQ())
}

func TestRetryDelayOfRejectsUnknownSuffix(t *testing.T) {
	for _, name := range []string{"console.events", "console.events.retry.", "console.events.retry.10s", "console.events.retry.0", "console.events.retry.99"} {
		_, ok := RetryDelayOf(name)
		assert.False(t, ok, name)
	}
}

func TestNewTopicDefault(t *testing.T) {
	assert.Equal(t, DefaultConsoleTopic, NewTopic("").Base())
}

func TestWrapAndDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	evt := Wrap("", []byte(`{"name":"Ana"}`))
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, len(RetryDelays), evt.MaxRetry)
	assert.Equal(t, 1, evt.WithMaxRetry(1).MaxRetry)
	assert.Equal(t, len(RetryDelays), evt.WithMaxRetry(99).MaxRetry)

	got, err := DecodeJSON[payload](evt)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = DecodeJSON[payload](Event{Payload: []byte("{")})
	assert.Error(t, err)
}

func TestMemoryBusDeliversBacklogAndLiveEvents(t *testing.T) {
	bus := NewMemoryEventBus(4)
	defer bus.Close()
	topic := NewTopic("test.events")

	first := Wrap("evt-1", []byte(`{"n":"1"}`)).WithMaxRetry(1)
	require.NoError(t, bus.Publish(context.Background(), topic.Base(), first))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	got := make(chan struct{}, 2)
	go func() {
		_ = bus.Subscribe(ctx, "g", topic, func(_ context.Context, evt Event) error {
			mu.Lock()
			seen = append(seen, evt.ID)
			mu.Unlock()
			got <- struct{}{}
			return nil
		})
	}()

	waitFor(t, got)
	second := Wrap("evt-2", []byte(`{"n":"2"}`)).WithMaxRetry(1)
	require.NoError(t, bus.Publish(context.Background(), topic.Base(), second))
	waitFor(t, got)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"evt-1", "evt-2"}, seen)
}

func TestMemoryBusRetriesThenDeadLetters(t *testing.T) {
	bus := NewMemoryEventBus(1)
	defer bus.Close()
	topic := NewTopic("test.retry")

	evt := Wrap("evt-x", []byte(`{"a":1}`)).WithMaxRetry(2)
	require.NoError(t, bus.Publish(context.Background(), topic.Base(), evt))

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Subscribe(ctx, "g", topic, func(context.Context, Event) error {
			attempts++
			if attempts == 3 {
				cancel()
			}
			return errors.New("mongo down")
		})
	}()
	<-done

	assert.Equal(t, 3, attempts)
	dead := bus.DeadLetters(topic)
	require.Len(t, dead, 1)
	assert.Equal(t, 2, dead[0].Retry)
	assert.Equal(t, "mongo down", dead[0].LastError)
}

func TestMemoryBusPublishAfterClose(t *testing.T) {
	bus := NewMemoryEventBus(0)
	bus.Close()
	bus.Close()

	err := bus.Publish(context.Background(), "x", Event{ID: "1"})
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, bus.StartRetryReinjector(context.Background(), "g", NewTopic("x")))
}

func TestMemoryBusPublishDoesNotBlockOnDepartedSubscriber(t *testing.T) {
	bus := NewMemoryEventBus(1)
	defer bus.Close()
	const topic = "test.departed"

	// 버퍼가 찬 구독자를 직접 등록한다.
	sub := &memorySub{ch: make(chan Event, 1), gone: make(chan struct{})}
	sub.ch <- Wrap("evt-a", []byte(`{}`))
	bus.mu.Lock()
	bus.subs[topic] = []*memorySub{sub}
	bus.mu.Unlock()

	published := make(chan error, 1)
	go func() {
		published <- bus.Publish(context.Background(), topic, Wrap("evt-b", []byte(`{}`)))
	}()

	time.Sleep(50 * time.Millisecond)
	bus.unsubscribe(topic, sub)

	select {
	case err := <-published:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a subscriber that already left")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	var ids []string
	for _, evt := range bus.backlog[topic] {
		ids = append(ids, evt.ID)
	}
	assert.Equal(t, []string{"evt-a", "evt-b"}, ids)
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
