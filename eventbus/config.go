package eventbus

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"nestly/internal/logger"
)

// BrokersFromEnv returns Kafka bootstrap servers from env KAFKA_BOOTSTRAP_SERVERS
func BrokersFromEnv() (string, error) {
	v := strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS"))
	if v == "" {
		return "", fmt.Errorf("KAFKA_BOOTSTRAP_SERVERS environment variable is required")
	}
	return v, nil
}

// GroupIDFromEnv 는 KAFKA_GROUP_ID 가 없으면 fallback 을 쓴다.
func GroupIDFromEnv(fallback string) string {
	if v := strings.TrimSpace(os.Getenv("KAFKA_GROUP_ID")); v != "" {
		return v
	}
	return fallback
}

// positiveIntFromEnv 는 비어 있거나, 파싱에 실패하거나, 0 이하이면 0 을 돌려준다.
// 0 은 라이브러리 기본값을 쓰라는 뜻이다.
func positiveIntFromEnv(key string) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		logger.WarnWithFields("invalid kafka env value, using library default", logger.Fields{
			"key":   key,
			"value": raw,
		})
		return 0
	}
	return value
}
