package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/eventbus"
	"nestly/events"
	"nestly/models"
)

const eventVersion = "1.0"

// EventDispatcher 아이템 이벤트 발행 서비스. 모든 이벤트는 아이템 ID 를 키로 같은 파티션에 모인다.
type EventDispatcher struct {
	bus    eventbus.EventBus
	source string
}

// NewEventDispatcher source 는 BaseEvent.Source 에 기록된다. ("api", "worker")
func NewEventDispatcher(bus eventbus.EventBus, source string) *EventDispatcher {
	return &EventDispatcher{bus: bus, source: source}
}

func (d *EventDispatcher) base(t events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    d.source,
		Version:   eventVersion,
	}
}

func (d *EventDispatcher) publish(ctx context.Context, itemID primitive.ObjectID, e any) error {
	evt, err := eventbus.NewJSONEvent(itemID.Hex(), e, 0)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	return d.bus.Publish(ctx, eventbus.TopicItemEvents.Base(), evt)
}

// PublishItemSaved 새 아이템 생성 이벤트 발행
func (d *EventDispatcher) PublishItemSaved(ctx context.Context, item *models.Item) error {
	return d.publish(ctx, item.ID, events.ItemSavedEvent{
		BaseEvent: d.base(events.ItemSaved),
		ItemID:    item.ID,
		UserID:    item.UserID,
		URL:       item.URL,
		Platform:  item.Platform,
	})
}

// PublishItemEnriched 재보강된 필드 이름 목록과 함께 발행
func (d *EventDispatcher) PublishItemEnriched(ctx context.Context, item *models.Item, fields []string) error {
	return d.publish(ctx, item.ID, events.ItemEnrichedEvent{
		BaseEvent: d.base(events.ItemEnriched),
		ItemID:    item.ID,
		UserID:    item.UserID,
		Fields:    fields,
	})
}

func (d *EventDispatcher) PublishItemClassified(ctx context.Context, userID string, itemID primitive.ObjectID, tags []events.TagScore) error {
	return d.publish(ctx, itemID, events.ItemClassifiedEvent{
		BaseEvent: d.base(events.ItemClassified),
		ItemID:    itemID,
		UserID:    userID,
		Tags:      tags,
	})
}

func (d *EventDispatcher) PublishReclassifyRequested(ctx context.Context, userID string, itemID primitive.ObjectID) error {
	return d.publish(ctx, itemID, events.ItemReclassifyRequestedEvent{
		BaseEvent: d.base(events.ItemReclassifyRequested),
		ItemID:    itemID,
		UserID:    userID,
	})
}
