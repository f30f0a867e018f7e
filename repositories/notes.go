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

type NoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{col: db.Collection("notes")}
}

// Upsert 는 아이템당 하나인 노트를 덮어쓴다.
func (r *NoteRepository) Upsert(ctx context.Context, n *models.Note) error {
	n.UpdatedAt = time.Now()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"item_id": n.ItemID},
		bson.M{"$set": bson.M{
			"user_id":    n.UserID,
			"body":       n.Body,
			"updated_at": n.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *NoteRepository) ListByItemIDs(ctx context.Context, itemIDs []primitive.ObjectID) ([]models.Note, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"item_id": bson.M{"$in": itemIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Note
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
