package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging         LoggingConfig         `yaml:"logging"`
	Server          ServerConfig          `yaml:"server"`
	Mongo           MongoConfig           `yaml:"mongo"`
	Extractor       ExtractorConfig       `yaml:"extractor"`
	Classifier      ClassifierConfig      `yaml:"classifier"`
	ClassifierQuota ClassifierQuotaConfig `yaml:"classifier_quota"`
	Kafka           KafkaConfig           `yaml:"kafka"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Port               int      `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// ExtractorConfig 는 메타데이터 수집 시 외부 호출에 대한 설정이다.
type ExtractorConfig struct {
	// FetchTimeoutSeconds 는 외부 fetch 1회에 허용되는 최대 시간(초)이다. 0 이하면 5초.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	// RenderFallback 이 true 이면 일반 fetch 가 실패했거나 제목이 없을 때 chromedp 렌더링을 시도한다.
	RenderFallback   bool   `yaml:"render_fallback"`
	TikTokOEmbedURL  string `yaml:"tiktok_oembed_url"`
	InstagramBaseURL string `yaml:"instagram_base_url"`
}

type ClassifierConfig struct {
	Provider      string  `yaml:"provider"`
	ModelName     string  `yaml:"model_name"`
	MinConfidence float64 `yaml:"min_confidence"`
	HistoryBoost  float64 `yaml:"history_boost"`
	ShortTitles   bool    `yaml:"short_titles"`
}

// ClassifierQuotaConfig 는 분류용 LLM 호출에 대한 속도/일일 한도를 정의한다.
type ClassifierQuotaConfig struct {
	// RequestsPerMinute 는 분당 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerDay 는 일일 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerDay int `yaml:"requests_per_day"`
}

type KafkaConfig struct {
	Enabled         bool `yaml:"enabled"`
	TopicPartitions int  `yaml:"topic_partitions"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	config = c
}

// Parse 는 yaml 을 읽어 기본값과 환경변수 오버라이드를 적용한 설정을 돌려준다.
func Parse(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Mongo.URI = uri
	}
	return &c, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "nestly"
	}
	if c.Extractor.FetchTimeoutSeconds <= 0 {
		c.Extractor.FetchTimeoutSeconds = 5
	}
	if c.Extractor.TikTokOEmbedURL == "" {
		c.Extractor.TikTokOEmbedURL = "https://www.tiktok.com/oembed"
	}
	if c.Extractor.InstagramBaseURL == "" {
		c.Extractor.InstagramBaseURL = "https://www.instagram.com"
	}
	if c.Classifier.MinConfidence <= 0 {
		c.Classifier.MinConfidence = 0.35
	}
	if c.Classifier.HistoryBoost <= 0 {
		c.Classifier.HistoryBoost = 0.15
	}
	if c.Kafka.TopicPartitions <= 0 {
		c.Kafka.TopicPartitions = 3
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
