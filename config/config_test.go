package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	cfg, err := Parse([]byte("logging:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "nestly", cfg.Mongo.Database)
	assert.Equal(t, 5, cfg.Extractor.FetchTimeoutSeconds)
	assert.Equal(t, "https://www.tiktok.com/oembed", cfg.Extractor.TikTokOEmbedURL)
	assert.Equal(t, "https://www.instagram.com", cfg.Extractor.InstagramBaseURL)
	assert.InDelta(t, 0.35, cfg.Classifier.MinConfidence, 1e-9)
	assert.InDelta(t, 0.15, cfg.Classifier.HistoryBoost, 1e-9)
	assert.Equal(t, 3, cfg.Kafka.TopicPartitions)
}

func TestParseKeepsExplicitValues(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	yml := `
server:
  port: 9090
  cors_allowed_origins: ["https://app.nestly.dev"]
mongo:
  uri: mongodb://localhost:27017
  database: links
classifier:
  provider: google
  model_name: gemini-2.5-flash
  min_confidence: 0.5
classifier_quota:
  requests_per_minute: 30
  requests_per_day: 1000
kafka:
  enabled: true
`
	cfg, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.nestly.dev"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "links", cfg.Mongo.Database)
	assert.Equal(t, "google", cfg.Classifier.Provider)
	assert.InDelta(t, 0.5, cfg.Classifier.MinConfidence, 1e-9)
	assert.Equal(t, 30, cfg.ClassifierQuota.RequestsPerMinute)
	assert.Equal(t, 1000, cfg.ClassifierQuota.RequestsPerDay)
	assert.True(t, cfg.Kafka.Enabled)
}

func TestParseMongoURIFromEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://env-host:27017")

	cfg, err := Parse([]byte("mongo:\n  uri: mongodb://yaml-host:27017\n"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://env-host:27017", cfg.Mongo.URI)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unterminated"))
	assert.Error(t, err)
}
