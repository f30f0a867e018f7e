package events

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	ItemSaved               EventType = "item.saved"
	ItemEnriched            EventType = "item.enriched"
	ItemClassified          EventType = "item.classified"
	ItemReclassifyRequested EventType = "item.reclassify_requested"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // "api", "worker" 등
	Version   string    `json:"version"`
}

// ItemSavedEvent 새 아이템이 저장되었을 때 발행된다. dedup hit 에서는 발행하지 않는다.
type ItemSavedEvent struct {
	BaseEvent
	ItemID   primitive.ObjectID `json:"item_id"`
	UserID   string             `json:"user_id"`
	URL      string             `json:"url"`
	Platform models.Platform    `json:"platform"`
}

// ItemEnrichedEvent dedup hit 에서 빠진 메타데이터를 다시 채웠을 때
type ItemEnrichedEvent struct {
	BaseEvent
	ItemID primitive.ObjectID `json:"item_id"`
	UserID string             `json:"user_id"`
	Fields []string           `json:"fields"`
}

type TagScore struct {
	Tag        models.Tag `json:"tag"`
	Confidence float64    `json:"confidence"`
}

// ItemClassifiedEvent 분류 결과가 저장된 뒤 발행된다.
type ItemClassifiedEvent struct {
	BaseEvent
	ItemID primitive.ObjectID `json:"item_id"`
	UserID string             `json:"user_id"`
	Tags   []TagScore         `json:"tags"`
}

// ItemReclassifyRequestedEvent 사용자가 명시적으로 재분류를 요청했을 때. worker 가 처리한다.
type ItemReclassifyRequestedEvent struct {
	BaseEvent
	ItemID primitive.ObjectID `json:"item_id"`
	UserID string             `json:"user_id"`
}

// envelope 는 타입만 먼저 읽어 보기 위한 구조다.
type envelope struct {
	Type EventType `json:"type"`
}

// PeekType 은 payload 의 type 필드만 읽는다.
func PeekType(data []byte) (EventType, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("failed to read event type: %w", err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("event type missing")
	}
	return env.Type, nil
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(eventType EventType, data []byte) (any, error) {
	var event any

	switch eventType {
	case ItemSaved:
		event = &ItemSavedEvent{}
	case ItemEnriched:
		event = &ItemEnrichedEvent{}
	case ItemClassified:
		event = &ItemClassifiedEvent{}
	case ItemReclassifyRequested:
		event = &ItemReclassifyRequestedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
