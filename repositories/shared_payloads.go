package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nestly/models"
)

type SharedPayloadRepository struct {
	col *mongo.Collection
}

func NewSharedPayloadRepository(db *mongo.Database) *SharedPayloadRepository {
	return &SharedPayloadRepository{col: db.Collection("shared_payloads")}
}

// Save 는 (user_id, key) 로 payload 를 저장한다. 같은 사용자의 같은 key 면 덮어쓰며 TTL 도 다시 시작된다.
func (r *SharedPayloadRepository) Save(ctx context.Context, p *models.SharedPayload) error {
	p.CreatedAt = time.Now()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": p.UserID, "key": p.Key},
		bson.M{"$set": bson.M{
			"url":        p.URL,
			"created_at": p.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Take 는 payload 를 꺼내면서 삭제한다. 한 번만 소비된다.
func (r *SharedPayloadRepository) Take(ctx context.Context, userID, key string) (*models.SharedPayload, error) {
	var p models.SharedPayload
	err := r.col.FindOneAndDelete(ctx, bson.M{"user_id": userID, "key": key}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
