package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nestly/models"
)

type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection("items")}
}

// FindByUserAndURL 은 (user_id, canonical url) 로 아이템을 찾는다. 없으면 ErrNotFound.
func (r *ItemRepository) FindByUserAndURL(ctx context.Context, userID, url string) (*models.Item, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "url": url})
}

// FindByIDForUser 는 소유자가 일치하는 아이템만 돌려준다.
func (r *ItemRepository) FindByIDForUser(ctx context.Context, userID string, id primitive.ObjectID) (*models.Item, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user_id": userID})
}

func (r *ItemRepository) findOne(ctx context.Context, filter bson.M) (*models.Item, error) {
	var it models.Item
	if err := r.col.FindOne(ctx, filter).Decode(&it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// Insert 는 새 아이템을 저장하고 ID 를 채운다. unique 인덱스 위반은 ErrDuplicateItem 이다.
func (r *ItemRepository) Insert(ctx context.Context, it *models.Item) error {
	now := time.Now()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = now
	if it.ID.IsZero() {
		it.ID = primitive.NewObjectID()
	}

	if _, err := r.col.InsertOne(ctx, it); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateItem
		}
		return err
	}
	return nil
}

// UpdateMetadata 는 수집한 메타데이터 필드(title, caption, author, thumbnail_url)만 갱신한다.
func (r *ItemRepository) UpdateMetadata(ctx context.Context, it *models.Item) error {
	it.UpdatedAt = time.Now()
	_, err := r.col.UpdateByID(ctx, it.ID, bson.M{
		"$set": bson.M{
			"title":         it.Title,
			"caption":       it.Caption,
			"author":        it.Author,
			"thumbnail_url": it.ThumbnailURL,
			"updated_at":    it.UpdatedAt,
		},
	})
	return err
}

// UpdateShortTitle sets short_title field
func (r *ItemRepository) UpdateShortTitle(ctx context.Context, id primitive.ObjectID, title string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"short_title": title, "updated_at": time.Now()},
	})
	return err
}

// SetDone 은 is_done 플래그만 바꾼다. 소유자가 다르거나 없으면 ErrNotFound.
func (r *ItemRepository) SetDone(ctx context.Context, userID string, id primitive.ObjectID, done bool) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{
		"$set": bson.M{"is_done": done, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type ListItemsOptions struct {
	UserID   string
	Page     int
	PageSize int
	// OnlyNotDone 은 Inbox 피드 조회용이다.
	OnlyNotDone bool
	// IDs 가 nil 이 아니면 해당 아이템으로 한정한다. 빈 slice 면 결과도 비어 있다.
	IDs []primitive.ObjectID
}

// List returns the user's items with filters and pagination, newest first
func (r *ItemRepository) List(ctx context.Context, opt ListItemsOptions) ([]models.Item, int64, error) {
	filter := bson.M{"user_id": opt.UserID}
	if opt.OnlyNotDone {
		filter["is_done"] = false
	}
	if opt.IDs != nil {
		filter["_id"] = bson.M{"$in": opt.IDs}
	}

	if opt.Page <= 0 {
		opt.Page = 1
	}
	if opt.PageSize <= 0 || opt.PageSize > 100 {
		opt.PageSize = 20
	}
	skip := int64((opt.Page - 1) * opt.PageSize)
	limit := int64(opt.PageSize)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	results := make([]models.Item, 0, limit)
	if err := cur.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
