package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info 는 하나의 inbound 요청에 대한 트레이싱 정보다.
// spanSeq 는 같은 요청 안에서 외부 호출(페이지 fetch, oEmbed, LLM)마다 1,2,3,... 으로 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// GenerateID 는 트레이싱에 사용할 랜덤 ID를 생성한다.
func GenerateID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b[:])
}

// WithRequestAndSpan 은 Request ID와 초기 span 값을 담은 컨텍스트를 반환한다.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID, spanSeq: initialSpan})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

// RequestIDFromContext 는 컨텍스트의 Request ID를 조회한다. 없으면 빈 문자열.
func RequestIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpanID 는 현재 span 값을 증가 없이 돌려준다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	if val := atomic.LoadInt64(&info.spanSeq); val > 0 {
		return strconv.FormatInt(val, 10)
	}
	return "0"
}

// NextSpanID 는 spanSeq 를 1 증가시키고 (requestID, spanID)를 반환한다.
// 미들웨어 밖(워커 등)에서 호출되면 새 Request ID와 span "1"을 돌려준다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}

// EnsureRequest 는 ctx 에 트레이싱 정보가 없을 때 requestID 로 새로 붙인다.
// 워커에서 이벤트 ID 를 Request ID 로 삼을 때 쓴다. requestID 가 비면 새로 만든다.
func EnsureRequest(ctx context.Context, requestID string) context.Context {
	if infoFromContext(ctx) != nil {
		return ctx
	}
	if requestID == "" {
		requestID = GenerateID()
	}
	return WithRequestAndSpan(ctx, requestID, 0)
}
