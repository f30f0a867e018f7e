package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemTag 는 아이템에 부여된 태그 하나를 나타낸다. (item_id, tag) 조합은 유일하다.
// user_id 는 사용자별 태그 이력 조회를 위해 비정규화해서 저장한다.
// Collection: item_tags
type ItemTag struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ItemID     primitive.ObjectID `bson:"item_id" json:"item_id"`
	UserID     string             `bson:"user_id" json:"-"`
	Tag        Tag                `bson:"tag" json:"tag"`
	Confidence *float64           `bson:"confidence" json:"confidence"`
	CreatedAt  time.Time          `bson:"created_at" json:"-"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"-"`
}
