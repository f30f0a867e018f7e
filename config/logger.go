package config

import (
	"os"

	"nestly/internal/logger"
)

// InitLogger 는 logging 설정으로 전역 로거를 초기화한다.
// LOG_LEVEL 환경변수가 있으면 config.yaml 보다 우선한다.
func InitLogger(cfg LoggingConfig) {
	level := cfg.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	logger.Init(level)
}
