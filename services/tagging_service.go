package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/classifier"
	"nestly/events"
	"nestly/internal/logger"
	"nestly/models"
	"nestly/repositories"
)

// TaggingService 는 아이템 분류와 태그 저장을 담당한다.
type TaggingService struct {
	items      ItemStore
	tags       TagStore
	classifier TagClassifier
	publisher  EventPublisher
}

func NewTaggingService(items ItemStore, tags TagStore, c TagClassifier, publisher EventPublisher) *TaggingService {
	return &TaggingService{items: items, tags: tags, classifier: c, publisher: publisher}
}

// ClassifyInput 의 Title/Caption 이 비어 있으면 저장된 아이템 값을 쓴다.
type ClassifyInput struct {
	ItemID   string
	Title    string
	Caption  string
	Hashtags []string
}

// ClassifyItem 은 분류 진입점이다. 아이템 소유권을 확인하고 분류 결과를 (item_id, tag) 기준으로 upsert 한다.
func (s *TaggingService) ClassifyItem(ctx context.Context, userID string, in ClassifyInput) ([]classifier.Score, error) {
	item, err := s.ownedItem(ctx, userID, in.ItemID)
	if err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = models.Deref(item.Title)
	}
	caption := in.Caption
	if caption == "" {
		caption = models.Deref(item.Caption)
	}
	hashtags := in.Hashtags
	if hashtags == nil {
		hashtags = ExtractHashtags(caption)
	}
	return s.classifyAndStore(ctx, item, title, caption, hashtags)
}

// Reclassify 는 저장된 title/caption 으로 다시 분류한다.
func (s *TaggingService) Reclassify(ctx context.Context, userID, itemID string) ([]classifier.Score, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	caption := models.Deref(item.Caption)
	return s.classifyAndStore(ctx, item, models.Deref(item.Title), caption, ExtractHashtags(caption))
}

// RequestReclassify 는 이벤트 버스가 있으면 재분류를 큐에 넣고 (nil, true) 를, 없으면 바로 실행한 결과를 돌려준다.
func (s *TaggingService) RequestReclassify(ctx context.Context, userID, itemID string) ([]classifier.Score, bool, error) {
	if s.publisher == nil {
		scores, err := s.Reclassify(ctx, userID, itemID)
		return scores, false, err
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, false, err
	}
	if err := s.publisher.PublishReclassifyRequested(ctx, userID, item.ID); err != nil {
		return nil, false, fmt.Errorf("publish reclassify request: %w", err)
	}
	return nil, true, nil
}

func (s *TaggingService) ownedItem(ctx context.Context, userID, itemID string) (*models.Item, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}
	item, err := s.items.FindByIDForUser(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}

// classifyAndStore 는 태그 이력 조회, 분류, 태그 upsert, short title 저장, 이벤트 발행을 순서대로 한다.
// 태그 upsert 실패만 에러로 돌려주고 나머지는 경고 로그로 남긴다.
func (s *TaggingService) classifyAndStore(ctx context.Context, item *models.Item, title, caption string, hashtags []string) ([]classifier.Score, error) {
	fields := logger.WithRequest(ctx, logger.Fields{"item_id": item.ID.Hex(), "user_id": item.UserID})

	history, err := s.tags.DistinctTagsByUser(ctx, item.UserID)
	if err != nil {
		logger.WarnWithFields("failed to read tag history, classifying without it", withError(fields, err))
		history = nil
	}

	text := classificationText(title, caption, hashtags)
	scores := s.classifier.Classify(ctx, text, history)

	rows := make([]models.ItemTag, 0, len(scores))
	for _, sc := range scores {
		confidence := sc.Confidence
		rows = append(rows, models.ItemTag{
			ItemID:     item.ID,
			UserID:     item.UserID,
			Tag:        sc.Tag,
			Confidence: &confidence,
		})
	}
	if err := s.tags.UpsertMany(ctx, rows); err != nil {
		return scores, fmt.Errorf("upsert tags: %w", err)
	}

	if short := s.classifier.ShortTitle(ctx, text, title); short != "" {
		if err := s.items.UpdateShortTitle(ctx, item.ID, short); err != nil {
			logger.WarnWithFields("failed to store short title", withError(fields, err))
		} else {
			item.ShortTitle = &short
		}
	}

	if s.publisher != nil {
		tagScores := make([]events.TagScore, 0, len(scores))
		for _, sc := range scores {
			tagScores = append(tagScores, events.TagScore{Tag: sc.Tag, Confidence: sc.Confidence})
		}
		if err := s.publisher.PublishItemClassified(ctx, item.UserID, item.ID, tagScores); err != nil {
			logger.WarnWithFields("failed to publish item.classified", withError(fields, err))
		}
	}

	logger.InfoWithFields("item classified", logger.Fields{
		"item_id": item.ID.Hex(),
		"tags":    len(scores),
	})
	return scores, nil
}

// withError 는 fields 사본에 error 를 더한다.
func withError(fields logger.Fields, err error) logger.Fields {
	out := make(logger.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
