package eventbus

import (
	"context"
	"sync"
)

// MemoryEventBus 는 단일 프로세스용 EventBus 구현체다. Kafka 없이 워커를 돌리거나 테스트할 때 쓴다.
// retry 토픽의 지연은 무시하고 곧바로 기본 토픽으로 재주입한다.
type MemoryEventBus struct {
	mu        sync.Mutex
	closed    bool
	published map[string][]Event
	subs      map[string][]chan Event
}

func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{
		published: make(map[string][]Event),
		subs:      make(map[string][]chan Event),
	}
}

func (m *MemoryEventBus) Publish(ctx context.Context, topic string, event Event) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrBusClosed
	}
	m.published[topic] = append(m.published[topic], event)
	subs := append([]chan Event(nil), m.subs[topic]...)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Published 는 topic 으로 발행된 이벤트의 사본이다.
func (m *MemoryEventBus) Published(topic string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.published[topic]...)
}

func (m *MemoryEventBus) subscribe(topics ...string) chan Event {
	ch := make(chan Event, 64)
	m.mu.Lock()
	for _, t := range topics {
		m.subs[t] = append(m.subs[t], ch)
	}
	m.mu.Unlock()
	return ch
}

func (m *MemoryEventBus) unsubscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for t, list := range m.subs {
		kept := list[:0]
		for _, c := range list {
			if c != ch {
				kept = append(kept, c)
			}
		}
		m.subs[t] = kept
	}
}

func (m *MemoryEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	ch := m.subscribe(topic.Base())
	defer m.unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-ch:
			evt = normalizeMaxRetry(evt)
			handlerErr := handler(ctx, evt)
			if handlerErr == nil {
				continue
			}
			dest, routed, err := RouteFailure(topic, evt, handlerErr)
			if err != nil {
				continue
			}
			// 구독자 자신의 채널로 되돌아올 수 있으므로 별도 고루틴에서 발행한다.
			go func() { _ = m.Publish(ctx, dest, routed) }()
		}
	}
}

func (m *MemoryEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	ch := m.subscribe(topic.GetRetryTopics()...)
	defer m.unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-ch:
			go func() { _ = m.Publish(ctx, topic.Base(), evt) }()
		}
	}
}

func (m *MemoryEventBus) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
