package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/classifier"
	"nestly/events"
	"nestly/extractor"
	"nestly/models"
	"nestly/repositories"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrURLRequired  = errors.New("url required")
	ErrItemNotFound = errors.New("item not found")
	ErrInvalidTag   = errors.New("invalid tag")
)

var (
	// ErrShareKeyRequired 는 공유 payload 를 키 없이 저장하려 한 경우다.
	ErrShareKeyRequired     = errors.New("share key required")
	ErrSharePayloadNotFound = errors.New("shared payload not found")
)

// ItemStore 는 repositories.ItemRepository 가 구현한다.
type ItemStore interface {
	FindByUserAndURL(ctx context.Context, userID, url string) (*models.Item, error)
	FindByIDForUser(ctx context.Context, userID string, id primitive.ObjectID) (*models.Item, error)
	Insert(ctx context.Context, it *models.Item) error
	UpdateMetadata(ctx context.Context, it *models.Item) error
	UpdateShortTitle(ctx context.Context, id primitive.ObjectID, title string) error
	SetDone(ctx context.Context, userID string, id primitive.ObjectID, done bool) error
	List(ctx context.Context, opt repositories.ListItemsOptions) ([]models.Item, int64, error)
}

type TagStore interface {
	UpsertMany(ctx context.Context, tags []models.ItemTag) error
	DistinctTagsByUser(ctx context.Context, userID string) ([]models.Tag, error)
	ListByItemIDs(ctx context.Context, itemIDs []primitive.ObjectID) ([]models.ItemTag, error)
	ItemIDsByTag(ctx context.Context, userID string, tag models.Tag) ([]primitive.ObjectID, error)
}

type NoteStore interface {
	Upsert(ctx context.Context, n *models.Note) error
	ListByItemIDs(ctx context.Context, itemIDs []primitive.ObjectID) ([]models.Note, error)
}

type SharedPayloadStore interface {
	Save(ctx context.Context, p *models.SharedPayload) error
	Take(ctx context.Context, userID, key string) (*models.SharedPayload, error)
}

// MetadataExtractor 는 extractor.Extractor 가 구현한다.
type MetadataExtractor interface {
	Extract(ctx context.Context, canonicalURL string, platform models.Platform) (extractor.Metadata, error)
	Refresh(ctx context.Context, canonicalURL string, platform models.Platform, current extractor.Metadata) (extractor.Metadata, bool)
}

// TagClassifier 는 classifier.Classifier 가 구현한다.
type TagClassifier interface {
	Classify(ctx context.Context, text string, history []models.Tag) []classifier.Score
	ShortTitle(ctx context.Context, text, title string) string
}

// EventPublisher 는 dispatcher.EventDispatcher 가 구현한다. nil 이면 이벤트를 발행하지 않는다.
type EventPublisher interface {
	PublishItemSaved(ctx context.Context, item *models.Item) error
	PublishItemEnriched(ctx context.Context, item *models.Item, fields []string) error
	PublishItemClassified(ctx context.Context, userID string, itemID primitive.ObjectID, tags []events.TagScore) error
	PublishReclassifyRequested(ctx context.Context, userID string, itemID primitive.ObjectID) error
}
