package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nestly/models"
)

type ItemTagRepository struct {
	col *mongo.Collection
}

func NewItemTagRepository(db *mongo.Database) *ItemTagRepository {
	return &ItemTagRepository{col: db.Collection("item_tags")}
}

// UpsertMany 는 (item_id, tag) 를 충돌 키로 upsert 한다.
// 같은 목록으로 여러 번 호출해도 행이 늘지 않고 confidence 만 갱신된다.
func (r *ItemTagRepository) UpsertMany(ctx context.Context, tags []models.ItemTag) error {
	if len(tags) == 0 {
		return nil
	}

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(tags))
	for _, t := range tags {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"item_id": t.ItemID, "tag": t.Tag}).
			SetUpdate(bson.M{
				"$setOnInsert": bson.M{"created_at": now},
				"$set": bson.M{
					"user_id":    t.UserID,
					"confidence": t.Confidence,
					"updated_at": now,
				},
			}).
			SetUpsert(true))
	}

	_, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

// DistinctTagsByUser 는 사용자가 한 번이라도 사용한 태그 집합이다. idx_user_tag 인덱스로 조회한다.
func (r *ItemTagRepository) DistinctTagsByUser(ctx context.Context, userID string) ([]models.Tag, error) {
	values, err := r.col.Distinct(ctx, "tag", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}

	tags := make([]models.Tag, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			tags = append(tags, models.Tag(s))
		}
	}
	return tags, nil
}

// ListByItemIDs 는 여러 아이템의 태그를 confidence 내림차순으로 돌려준다.
func (r *ItemTagRepository) ListByItemIDs(ctx context.Context, itemIDs []primitive.ObjectID) ([]models.ItemTag, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"item_id": bson.M{"$in": itemIDs}},
		options.Find().SetSort(bson.D{{Key: "confidence", Value: -1}, {Key: "tag", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ItemTag
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ItemIDsByTag 는 사용자의 아이템 중 tag 가 붙은 아이템 ID 목록이다.
func (r *ItemTagRepository) ItemIDsByTag(ctx context.Context, userID string, tag models.Tag) ([]primitive.ObjectID, error) {
	values, err := r.col.Distinct(ctx, "item_id", bson.M{"user_id": userID, "tag": tag})
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
