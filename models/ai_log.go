package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AIUsage 는 LLM 응답의 토큰 사용량이다.
type AIUsage struct {
	Input  int32 `bson:"input" json:"input"`
	Output int32 `bson:"output" json:"output"`
	Total  int32 `bson:"total" json:"total"`
}

// AILog 는 분류기/short title 생성에서 나간 LLM 호출 1회다. 실패한 호출도 남긴다.
// Collection: ai_logs (created_at 기준 TTL)
type AILog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID    string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Purpose      string             `bson:"purpose" json:"purpose"`
	Provider     string             `bson:"provider" json:"provider"`
	Model        string             `bson:"model" json:"model"`
	ModelVersion string             `bson:"model_version,omitempty" json:"model_version,omitempty"`
	Prompt       string             `bson:"prompt" json:"prompt"`
	Response     string             `bson:"response" json:"response"`
	Usage        AIUsage            `bson:"usage" json:"usage"`
	LatencyMs    int64              `bson:"latency_ms" json:"latency_ms"`
	Error        *string            `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
