package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RetryDelays 는 재시도 횟수(1-based)별 지연 시간이다. 각 값이 하나의 retry 토픽이 된다.
var RetryDelays = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
}

// Topic 은 기본 토픽 이름과 파생되는 retry/DLQ 토픽 이름을 관리한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ 예: nestly.item.events.dlq
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

func (t Topic) retryTopic(delay time.Duration) string {
	return fmt.Sprintf("%s.retry.%s", t.base, delay.String())
}

// GetRetryTopics 는 모든 retry 토픽 이름이다. 예: nestly.item.events.retry.10s
func (t Topic) GetRetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i, delay := range RetryDelays {
		topics[i] = t.retryTopic(delay)
	}
	return topics
}

// GetRetryTopic 은 retryCount 번째(1-based) 재시도에 쓸 토픽이다.
func (t Topic) GetRetryTopic(retryCount int) (string, error) {
	if retryCount <= 0 || retryCount > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return t.retryTopic(RetryDelays[retryCount-1]), nil
}

// Event 는 Kafka 메시지 value 로 쓰이는 봉투(envelope)다.
// Key 가 있으면 메시지 key 로 사용되어 같은 아이템의 이벤트가 같은 파티션으로 간다.
type Event struct {
	ID        string          `json:"id"`
	Key       string          `json:"key,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

func (e Event) messageKey() []byte {
	if e.Key != "" {
		return []byte(e.Key)
	}
	return []byte(e.ID)
}

// EventHandler 가 에러를 반환하면 이벤트는 다음 retry 토픽으로, 한도를 넘기면 DLQ 로 간다.
type EventHandler func(ctx context.Context, event Event) error

type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	// Subscribe 는 기본 토픽을 구독해 handler 를 실행한다. ctx 가 끝날 때까지 블로킹된다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector 는 retry 토픽들을 구독하다가 지연 시간이 지난 이벤트를 기본 토픽에 다시 넣는다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

var (
	ErrMaxRetryExceeded = errors.New("max retry exceeded")
	// ErrBusClosed 는 Close 이후 Publish 를 호출한 경우다.
	ErrBusClosed = errors.New("event bus closed")
)
