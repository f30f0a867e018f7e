package eventbus

import (
	"strings"
	"time"
)

// 서비스의 기본 토픽. 아이템 저장/보강/분류 이벤트가 모두 이 토픽으로 흐른다.
var TopicItemEvents = NewTopic("nestly.item.events")

var AllTopics = []Topic{
	TopicItemEvents,
}

// ParseRetryFromTopicName 은 "<base>.retry.<duration>" 토픽 이름에서 지연 시간을 꺼낸다.
// 예: "nestly.item.events.retry.1m0s" -> 1m0s. GetRetryTopics 가 만드는 이름과 같은 형식이다.
func ParseRetryFromTopicName(name string) (time.Duration, bool) {
	const marker = ".retry."
	idx := strings.LastIndex(name, marker)
	if idx == -1 || idx+len(marker) >= len(name) {
		return 0, false
	}
	d, err := time.ParseDuration(name[idx+len(marker):])
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
