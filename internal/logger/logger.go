// Package logger 는 gookit/slog 기반 JSON 콘솔 로거와 구조화 필드 헬퍼를 제공한다.
package logger

import (
	"context"
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"

	"nestly/trace"
)

// Logger 는 애플리케이션 전역에서 사용하는 최소 로거 인터페이스다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

// Log 는 전역 로거다. Init 전에도 info 레벨로 동작한다.
var Log Logger = NewLogger("info")

// Init 은 주어진 레벨로 전역 로거를 교체한다. 빈 값이면 info.
func Init(level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	Log = NewLogger(level)
}

func InitFromEnv(envKey string) {
	Init(os.Getenv(envKey))
}

// NewLogger 는 level 이상만 출력하는 JSON 콘솔 로거를 만든다.
// 고정 필드는 datetime/level/message 뿐이고 나머지는 Fields 가 top-level 키로 나간다.
func NewLogger(level string) Logger {
	threshold := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= threshold {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{slog.FieldKeyDatetime, slog.FieldKeyLevel, slog.FieldKeyMessage}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	}))
	return slog.NewWithHandlers(h)
}

// WithRequest 는 ctx 에 실린 request_id 를 fields 에 더한다. 요청 밖이면 그대로 돌려준다.
func WithRequest(ctx context.Context, fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if id := trace.RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	return fields
}

func InfoWithFields(msg string, fields Fields)  { logAt(slog.InfoLevel, msg, fields) }
func DebugWithFields(msg string, fields Fields) { logAt(slog.DebugLevel, msg, fields) }

// WarnWithFields 는 수집/분류가 저하(degrade)된 결과로 끝났을 때 쓴다.
func WarnWithFields(msg string, fields Fields)  { logAt(slog.WarnLevel, msg, fields) }
func ErrorWithFields(msg string, fields Fields) { logAt(slog.ErrorLevel, msg, fields) }

func logAt(level slog.Level, msg string, fields Fields) {
	lg, ok := Log.(*slog.Logger)
	if !ok {
		switch level {
		case slog.DebugLevel:
			Log.Debug(msg)
		case slog.WarnLevel:
			Log.Warn(msg)
		case slog.ErrorLevel:
			Log.Error(msg)
		default:
			Log.Info(msg)
		}
		return
	}
	lg.WithFields(slog.M(withServiceName(fields))).Log(level, msg)
}

// withServiceName 은 SERVICE_NAME 환경변수가 있으면 service_name 필드를 채운다.
func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok {
		if sn := os.Getenv("SERVICE_NAME"); sn != "" {
			fields["service_name"] = sn
		}
	}
	return fields
}
