package main

import (
	"context"
	"errors"

	"nestly/classifier"
	"nestly/eventbus"
	"nestly/events"
	"nestly/internal/logger"
	"nestly/services"
	"nestly/trace"
)

type reclassifier interface {
	Reclassify(ctx context.Context, userID, itemID string) ([]classifier.Score, error)
}

type eventHandler struct {
	tagging reclassifier
}

func newEventHandler(tagging reclassifier) *eventHandler {
	return &eventHandler{tagging: tagging}
}

// Handle 은 이벤트 타입만 먼저 보고 재분류 요청만 처리한다. 나머지 타입은 커밋하고 넘긴다.
func (h *eventHandler) Handle(ctx context.Context, ev eventbus.Event) error {
	ctx = trace.EnsureRequest(ctx, ev.ID)
	eventType, err := events.PeekType(ev.Payload)
	if err != nil {
		return err
	}

	switch eventType {
	case events.ItemReclassifyRequested:
		req, err := eventbus.DecodeJSON[events.ItemReclassifyRequestedEvent](ev)
		if err != nil {
			return err
		}
		return h.handleReclassify(ctx, &req)
	default:
		return nil
	}
}

func (h *eventHandler) handleReclassify(ctx context.Context, req *events.ItemReclassifyRequestedEvent) error {
	fields := logger.WithRequest(ctx, logger.Fields{"event_id": req.ID, "item_id": req.ItemID.Hex(), "user_id": req.UserID})

	scores, err := h.tagging.Reclassify(ctx, req.UserID, req.ItemID.Hex())
	// 그 사이 삭제됐거나 남의 아이템이면 재시도해도 소용없다.
	if errors.Is(err, services.ErrItemNotFound) || errors.Is(err, services.ErrUnauthorized) {
		fields["error"] = err.Error()
		logger.WarnWithFields("dropping reclassify request", fields)
		return nil
	}
	if err != nil {
		return err
	}

	fields["tags"] = len(scores)
	logger.InfoWithFields("item reclassified", fields)
	return nil
}
