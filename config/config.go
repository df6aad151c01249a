package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Backend    BackendConfig    `yaml:"backend"`
	Server     ServerConfig     `yaml:"server"`
	Pagination PaginationConfig `yaml:"pagination"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// BackendConfig 는 원격 백엔드(직원/출입 API) 접속 설정이다.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
}

// MongoConfig 는 대시보드 데이터와 감사 로그 저장소 설정이다.
// URI 가 비어 있으면 메모리 기반 구현을 사용한다.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// KafkaConfig 는 콘솔 이벤트 버스 설정이다.
// Brokers 가 비어 있으면 프로세스 내부 버스를 사용한다.
type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
	GroupID string `yaml:"group_id"`
}

type DashboardConfig struct {
	Seed int64 `yaml:"seed"`
}

var (
	config   *AppConfig
	configMu sync.Mutex
)

// Default 는 설정 파일이 없어도 동작하는 기본값이다.
func Default() AppConfig {
	return AppConfig{
		Logging:    LoggingConfig{Level: "info"},
		Backend:    BackendConfig{BaseURL: "http://localhost:8000", Timeout: 10 * time.Second},
		Server:     ServerConfig{Addr: ":8080", AllowedOrigins: []string{"http://localhost:5173"}},
		Pagination: PaginationConfig{DefaultPageSize: 10},
		Mongo:      MongoConfig{Database: "pastas"},
		Kafka:      KafkaConfig{Topic: "console.events", GroupID: "console-auditor"},
	}
}

// Load 는 dir 의 .env 와 config.yaml 을 읽고 환경변수로 덮어쓴 설정을 반환한다.
// config.yaml 이 없으면 기본값에 환경변수만 적용한다.
func Load(dir string) (*AppConfig, error) {
	if dir != "" {
		_ = godotenv.Load(filepath.Join(dir, ENV_FILE))
	}

	c := Default()
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, CONFIG_FILE))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", CONFIG_FILE, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}
	applyEnv(&c)
	fillDefaults(&c)
	return &c, nil
}

func applyEnv(c *AppConfig) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set("LOG_LEVEL", &c.Logging.Level)
	set("BACKEND_BASE_URL", &c.Backend.BaseURL)
	set("SERVER_ADDR", &c.Server.Addr)
	set("MONGO_URI", &c.Mongo.URI)
	set("MONGO_DB_NAME", &c.Mongo.Database)
	set("KAFKA_BOOTSTRAP_SERVERS", &c.Kafka.Brokers)
	set("KAFKA_TOPIC", &c.Kafka.Topic)
	set("KAFKA_GROUP_ID", &c.Kafka.GroupID)

	if v := strings.TrimSpace(os.Getenv("BACKEND_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backend.Timeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
}

// fillDefaults 는 yaml 에서 빈 값으로 덮인 필드를 기본값으로 되돌린다.
func fillDefaults(c *AppConfig) {
	d := Default()
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = d.Backend.BaseURL
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = d.Backend.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Pagination.DefaultPageSize <= 0 {
		c.Pagination.DefaultPageSize = d.Pagination.DefaultPageSize
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = d.Mongo.Database
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = d.Kafka.Topic
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = d.Kafka.GroupID
	}
}

func InitApp() {
	c, err := Load(GetBasePath())
	if err != nil {
		panic(err)
	}
	configMu.Lock()
	config = c
	configMu.Unlock()
}

func GetConfig() AppConfig {
	configMu.Lock()
	initialized := config != nil
	configMu.Unlock()
	if !initialized {
		InitApp()
	}

	configMu.Lock()
	defer configMu.Unlock()
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
