package eventbus

import "errors"

// normalizeMaxRetry 는 설정되지 않았거나 범위를 넘는 MaxRetry 를 RetryDelays 길이로 보정한다.
func normalizeMaxRetry(evt Event) Event {
	if evt.MaxRetry <= 0 || evt.MaxRetry > len(RetryDelays) {
		evt.MaxRetry = len(RetryDelays)
	}
	return evt
}

// RouteFailure 는 handler 가 실패한 이벤트를 어디로 보낼지 결정한다.
// 다음 재시도가 남아 있으면 해당 retry 토픽을, 아니면 DLQ 를 돌려준다.
// 반환된 Event 는 Retry/LastError 가 갱신된 사본이다.
func RouteFailure(topic Topic, evt Event, handlerErr error) (string, Event, error) {
	evt = normalizeMaxRetry(evt)
	if handlerErr != nil {
		evt.LastError = handlerErr.Error()
	}

	next := evt.Retry + 1
	if next > evt.MaxRetry {
		return topic.DLQ(), evt, nil
	}
	retryTopic, err := topic.GetRetryTopic(next)
	if errors.Is(err, ErrMaxRetryExceeded) {
		return topic.DLQ(), evt, nil
	}
	if err != nil {
		return "", evt, err
	}
	evt.Retry = next
	return retryTopic, evt, nil
}
