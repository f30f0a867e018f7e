package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"nestly/internal/logger"
	"nestly/trace"
)

// Config 는 외부 fetch 용 HTTP 클라이언트 설정이다.
type Config struct {
	// Timeout 이 0이면 10초를 사용한다. 요청별 타임아웃은 context 로 따로 건다.
	Timeout time.Duration
	// UserAgent 는 요청에 User-Agent 헤더가 없을 때 채워 넣을 값이다.
	UserAgent string
	// Transport 가 nil 이면 http.DefaultTransport 를 사용한다.
	Transport http.RoundTripper
}

// loggingRoundTripper 는 모든 아웃바운드 호출에 대해 공통 로깅, User-Agent 기본값,
// X-Request-Id/X-Span-Id 헤더 전파를 수행한다.
type loggingRoundTripper struct {
	inner     http.RoundTripper
	userAgent string
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())

	// RoundTripper 는 원본 요청을 수정하면 안 되므로 복제해서 헤더를 세팅한다.
	out := req.Clone(req.Context())
	out.Header.Set("X-Request-Id", requestID)
	out.Header.Set("X-Span-Id", spanID)
	if l.userAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.inner.RoundTrip(out)
	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"duration":   time.Since(start).String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.WarnWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request done", fields)
	return resp, nil
}

// New 는 주어진 설정으로 로깅이 포함된 http.Client 를 생성한다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport, userAgent: cfg.UserAgent},
	}
}

// NewDefault 는 기본 설정(Timeout 10초)의 http.Client 를 생성한다.
func NewDefault() *http.Client {
	return New(Config{})
}

// StatusError 는 2xx 가 아닌 응답을 나타낸다.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// ReadBody 는 응답 바디를 최대 limit 바이트까지 읽고 닫는다. 2xx 가 아니면 *StatusError.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
