package repositories

import "errors"

var (
	// ErrNotFound 는 조회 대상 문서가 없을 때 반환된다.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateItem 은 (user_id, url) unique 인덱스 위반이다. 다른 요청이 먼저 저장한 경우다.
	ErrDuplicateItem = errors.New("item already exists for user and url")
)
