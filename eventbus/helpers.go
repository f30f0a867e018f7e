package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewJSONEvent 는 payload 를 JSON 으로 인코딩해 Event 를 만든다.
// key 는 파티션 키(보통 아이템 ID)이며, maxRetry 가 범위를 벗어나면 RetryDelays 길이를 쓴다.
func NewJSONEvent(key string, payload any, maxRetry int) (Event, error) {
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Event{
		ID:       uuid.NewString(),
		Key:      key,
		Payload:  b,
		MaxRetry: maxRetry,
	}, nil
}

// DecodeJSON 은 Event.Payload 를 T 로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("unmarshal payload: %w", err)
	}
	return out, nil
}
