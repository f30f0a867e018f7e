package models

import "time"

// SharedPayload 는 공유 확장(share extension)이 dataUrl 키로 맡겨둔 공유 URL 이다.
// 저장 시점에 공유 항목에서 URL 을 추출해 두고, 딥링크가 키로 다시 찾아간다.
// Collection: shared_payloads (created_at 기준 TTL)
type SharedPayload struct {
	Key       string    `bson:"key" json:"key"`
	UserID    string    `bson:"user_id" json:"-"`
	URL       string    `bson:"url" json:"url"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
