package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item represents one saved link per (user_id, canonical url)
// Collection: items
type Item struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	URL          string             `bson:"url" json:"url"`
	Platform     Platform           `bson:"platform" json:"platform"`
	Title        *string            `bson:"title" json:"title"`
	ShortTitle   *string            `bson:"short_title" json:"short_title"`
	Caption      *string            `bson:"caption" json:"caption"`
	Author       *string            `bson:"author" json:"author"`
	ThumbnailURL *string            `bson:"thumbnail_url" json:"thumbnail_url"`
	IsDone       bool               `bson:"is_done" json:"is_done"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// StringPtr returns nil for an empty (whitespace only) string.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
