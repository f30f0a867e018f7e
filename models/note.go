package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is the free text a user attached when saving an item.
// Collection: notes
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ItemID    primitive.ObjectID `bson:"item_id" json:"item_id"`
	UserID    string             `bson:"user_id" json:"-"`
	Body      string             `bson:"body" json:"body"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
