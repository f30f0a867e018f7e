package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicNames(t *testing.T) {
	topic := NewTopic("nestly.item.events")

	assert.Equal(t, "nestly.item.events", topic.Base())
	assert.Equal(t, "nestly.item.events.dlq", topic.DLQ())
	assert.Equal(t, []string{
		"nestly.item.events.retry.10s",
		"nestly.item.events.retry.30s",
		"nestly.item.events.retry.1m0s",
		"nestly.item.events.retry.5m0s",
	}, topic.GetRetryTopics())

	_, err := topic.GetRetryTopic(0)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
	_, err = topic.GetRetryTopic(len(RetryDelays) + 1)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
}

func TestParseRetryFromTopicName(t *testing.T) {
	testCases := []struct {
		name  string
		topic string
		want  time.Duration
		ok    bool
	}{
		{name: "seconds", topic: "nestly.item.events.retry.10s", want: 10 * time.Second, ok: true},
		{name: "minutes", topic: "nestly.item.events.retry.5m0s", want: 5 * time.Minute, ok: true},
		{name: "base topic", topic: "nestly.item.events", ok: false},
		{name: "empty suffix", topic: "nestly.item.events.retry.", ok: false},
		{name: "garbage suffix", topic: "nestly.item.events.retry.soon", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseRetryFromTopicName(tc.topic)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	// GetRetryTopics 가 만드는 모든 이름을 되읽을 수 있어야 한다.
	for i, name := range TopicItemEvents.GetRetryTopics() {
		got, ok := ParseRetryFromTopicName(name)
		require.True(t, ok, name)
		assert.Equal(t, RetryDelays[i], got)
	}
}

func TestRouteFailure(t *testing.T) {
	topic := TopicItemEvents
	boom := errors.New("boom")

	testCases := []struct {
		name      string
		evt       Event
		wantDest  string
		wantRetry int
	}{
		{name: "first failure", evt: Event{ID: "a", MaxRetry: 4}, wantDest: "nestly.item.events.retry.10s", wantRetry: 1},
		{name: "third failure", evt: Event{ID: "a", Retry: 2, MaxRetry: 4}, wantDest: "nestly.item.events.retry.1m0s", wantRetry: 3},
		{name: "exhausted", evt: Event{ID: "a", Retry: 4, MaxRetry: 4}, wantDest: "nestly.item.events.dlq", wantRetry: 4},
		{name: "small max retry", evt: Event{ID: "a", Retry: 1, MaxRetry: 1}, wantDest: "nestly.item.events.dlq", wantRetry: 1},
		{name: "unset max retry is normalized", evt: Event{ID: "a"}, wantDest: "nestly.item.events.retry.10s", wantRetry: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dest, routed, err := RouteFailure(topic, tc.evt, boom)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, dest)
			assert.Equal(t, tc.wantRetry, routed.Retry)
			assert.Equal(t, "boom", routed.LastError)
		})
	}
}

func TestNewJSONEventAndDecode(t *testing.T) {
	type payload struct {
		ItemID string `json:"item_id"`
	}

	evt, err := NewJSONEvent("item-1", payload{ItemID: "item-1"}, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "item-1", evt.Key)
	assert.Equal(t, len(RetryDelays), evt.MaxRetry)
	assert.Equal(t, []byte("item-1"), evt.messageKey())

	got, err := DecodeJSON[payload](evt)
	require.NoError(t, err)
	assert.Equal(t, "item-1", got.ItemID)

	_, err = DecodeJSON[payload](Event{Payload: []byte("{")})
	assert.Error(t, err)
}

func TestMemoryEventBus_RetryThenSucceed(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var calls atomic.Int32
	done := make(chan Event, 1)
	go func() {
		_ = bus.Subscribe(ctx, "test", TopicItemEvents, func(ctx context.Context, evt Event) error {
			if calls.Add(1) == 1 {
				return errors.New("transient")
			}
			done <- evt
			return nil
		})
	}()
	go func() { _ = bus.StartRetryReinjector(ctx, "test-retry", TopicItemEvents) }()

	// 구독 등록을 기다린다.
	require.Eventually(t, func() bool {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		return len(bus.subs[TopicItemEvents.Base()]) == 1 && len(bus.subs[TopicItemEvents.GetRetryTopics()[0]]) == 1
	}, time.Second, 10*time.Millisecond)

	evt, err := NewJSONEvent("k", map[string]string{"a": "b"}, 2)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, TopicItemEvents.Base(), evt))

	select {
	case got := <-done:
		assert.Equal(t, evt.ID, got.ID)
		assert.Equal(t, 1, got.Retry)
		assert.Equal(t, "transient", got.LastError)
	case <-ctx.Done():
		t.Fatal("event was not redelivered")
	}
	assert.Len(t, bus.Published(TopicItemEvents.GetRetryTopics()[0]), 1)
}

func TestMemoryEventBus_ExhaustedGoesToDLQ(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		_ = bus.Subscribe(ctx, "test", TopicItemEvents, func(ctx context.Context, evt Event) error {
			return errors.New("permanent")
		})
	}()
	go func() { _ = bus.StartRetryReinjector(ctx, "test-retry", TopicItemEvents) }()

	require.Eventually(t, func() bool {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		return len(bus.subs[TopicItemEvents.Base()]) == 1 && len(bus.subs[TopicItemEvents.GetRetryTopics()[0]]) == 1
	}, time.Second, 10*time.Millisecond)

	evt, err := NewJSONEvent("k", "x", 1)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, TopicItemEvents.Base(), evt))

	require.Eventually(t, func() bool {
		return len(bus.Published(TopicItemEvents.DLQ())) == 1
	}, time.Second, 10*time.Millisecond)

	dead := bus.Published(TopicItemEvents.DLQ())[0]
	assert.Equal(t, evt.ID, dead.ID)
	assert.Equal(t, "permanent", dead.LastError)
}

func TestMemoryEventBus_Closed(t *testing.T) {
	bus := NewMemoryEventBus()
	bus.Close()
	err := bus.Publish(context.Background(), "t", Event{ID: "x"})
	assert.ErrorIs(t, err, ErrBusClosed)
}
