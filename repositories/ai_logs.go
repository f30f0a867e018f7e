package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"nestly/models"
)

// AILogRepository 는 classifier.AILogRecorder 를 구현한다.
type AILogRepository struct {
	col *mongo.Collection
}

func NewAILogRepository(db *mongo.Database) *AILogRepository {
	return &AILogRepository{col: db.Collection("ai_logs")}
}

func (r *AILogRepository) Insert(ctx context.Context, entry *models.AILog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, entry)
	return err
}
