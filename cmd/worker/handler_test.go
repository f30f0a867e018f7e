package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/classifier"
	"nestly/eventbus"
	"nestly/events"
	"nestly/services"
)

type fakeReclassifier struct {
	calls []string
	err   error
}

func (f *fakeReclassifier) Reclassify(ctx context.Context, userID, itemID string) ([]classifier.Score, error) {
	f.calls = append(f.calls, userID+"/"+itemID)
	return nil, f.err
}

func newEvent(t *testing.T, payload any) eventbus.Event {
	t.Helper()
	ev, err := eventbus.NewJSONEvent("k", payload, 3)
	require.NoError(t, err)
	return ev
}

func TestEventHandler_Handle(t *testing.T) {
	itemID := primitive.NewObjectID()
	reclassify := events.ItemReclassifyRequestedEvent{
		BaseEvent: events.BaseEvent{ID: "e1", Type: events.ItemReclassifyRequested},
		ItemID:    itemID,
		UserID:    "u1",
	}
	saved := events.ItemSavedEvent{
		BaseEvent: events.BaseEvent{ID: "e2", Type: events.ItemSaved},
		ItemID:    itemID,
		UserID:    "u1",
	}

	testCases := []struct {
		name      string
		event     any
		svcErr    error
		wantCalls int
		wantErr   bool
	}{
		{name: "reclassify request", event: reclassify, wantCalls: 1},
		{name: "other event types are ignored", event: saved, wantCalls: 0},
		{name: "missing item is dropped", event: reclassify, svcErr: services.ErrItemNotFound, wantCalls: 1},
		{name: "store failure is retried", event: reclassify, svcErr: errors.New("mongo down"), wantCalls: 1, wantErr: true},
		{name: "payload without type", event: map[string]string{"item_id": itemID.Hex()}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeReclassifier{err: tc.svcErr}
			h := newEventHandler(svc)

			err := h.Handle(context.Background(), newEvent(t, tc.event))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, svc.calls, tc.wantCalls)
			if tc.wantCalls > 0 {
				assert.Equal(t, "u1/"+itemID.Hex(), svc.calls[0])
			}
		})
	}
}
