package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/models"
)

func seedItem(t *testing.T, h *harness, userID, url, title, caption string) *models.Item {
	t.Helper()
	item := &models.Item{
		UserID:   userID,
		URL:      url,
		Platform: models.PlatformWeb,
		Title:    models.StringPtr(title),
		Caption:  models.StringPtr(caption),
	}
	require.NoError(t, h.store.Items().Insert(context.Background(), item))
	return item
}

func TestClassifyItem_UpsertIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	item := seedItem(t, h, "u1", "https://example.com/a", "", "")

	in := ClassifyInput{ItemID: item.ID.Hex(), Title: "Quick #workout session", Hashtags: []string{"#gym"}}
	first, err := h.tagging.ClassifyItem(ctx, "u1", in)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, models.TagFitness, first[0].Tag)
	assert.InDelta(t, 0.8, first[0].Confidence, 1e-9)

	rowsAfterFirst := h.store.Tags().Count()
	second, err := h.tagging.ClassifyItem(ctx, "u1", in)
	require.NoError(t, err)

	assert.Equal(t, rowsAfterFirst, h.store.Tags().Count())
	// 두 번째 호출에서는 Fitness 가 이력에 있으므로 부스트된다.
	assert.InDelta(t, 0.95, second[0].Confidence, 1e-9)

	tags, err := h.store.Tags().ListByItemIDs(ctx, []primitive.ObjectID{item.ID})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.InDelta(t, 0.95, *tags[0].Confidence, 1e-9)
}

func TestClassifyItem_UsesStoredFieldsWhenInputEmpty(t *testing.T) {
	h := newHarness()
	item := seedItem(t, h, "u1", "https://example.com/b", "Budget tips", "Investing for beginners #money")

	scores, err := h.tagging.ClassifyItem(context.Background(), "u1", ClassifyInput{ItemID: item.ID.Hex()})
	require.NoError(t, err)
	require.NotEmpty(t, scores)
	assert.Equal(t, models.TagFinance, scores[0].Tag)
	assert.Contains(t, h.classifier.lastText.Load().(string), "#money")
}

func TestClassifyItem_Errors(t *testing.T) {
	h := newHarness()
	item := seedItem(t, h, "u1", "https://example.com/c", "t", "")

	testCases := []struct {
		name    string
		userID  string
		itemID  string
		wantErr error
	}{
		{name: "no user", userID: "", itemID: item.ID.Hex(), wantErr: ErrUnauthorized},
		{name: "malformed id", userID: "u1", itemID: "nope", wantErr: ErrItemNotFound},
		{name: "unknown id", userID: "u1", itemID: primitive.NewObjectID().Hex(), wantErr: ErrItemNotFound},
		{name: "other user's item", userID: "u2", itemID: item.ID.Hex(), wantErr: ErrItemNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.tagging.ClassifyItem(context.Background(), tc.userID, ClassifyInput{ItemID: tc.itemID})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Zero(t, h.store.Tags().Count())
}

func TestClassifyItem_StoresShortTitle(t *testing.T) {
	h := newHarness()
	h.classifier.short = "Seoul Ramen Crawl"
	item := seedItem(t, h, "u1", "https://example.com/d", "Best ramen recipe in Seoul", "")

	_, err := h.tagging.ClassifyItem(context.Background(), "u1", ClassifyInput{ItemID: item.ID.Hex()})
	require.NoError(t, err)

	stored, err := h.store.Items().FindByIDForUser(context.Background(), "u1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seoul Ramen Crawl", models.Deref(stored.ShortTitle))
}

func TestRequestReclassify(t *testing.T) {
	t.Run("queued when a publisher is configured", func(t *testing.T) {
		h := newHarness()
		item := seedItem(t, h, "u1", "https://example.com/e", "gym day", "")

		scores, queued, err := h.tagging.RequestReclassify(context.Background(), "u1", item.ID.Hex())
		require.NoError(t, err)
		assert.True(t, queued)
		assert.Nil(t, scores)
		assert.Equal(t, []string{"item.reclassify_requested"}, h.publisher.names())
		assert.Zero(t, h.classifier.calls.Load())
	})

	t.Run("inline without a publisher", func(t *testing.T) {
		h := newHarness()
		tagging := NewTaggingService(h.store.Items(), h.store.Tags(), h.classifier, nil)
		item := seedItem(t, h, "u1", "https://example.com/f", "gym day", "")

		scores, queued, err := tagging.RequestReclassify(context.Background(), "u1", item.ID.Hex())
		require.NoError(t, err)
		assert.False(t, queued)
		require.NotEmpty(t, scores)
		assert.Equal(t, models.TagFitness, scores[0].Tag)
	})
}
