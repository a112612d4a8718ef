package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/lmsrec/pkg/logging"
)

// EnvPrefix 是环境变量前缀：LMSREC_MONGO_URI -> mongo.uri。
const EnvPrefix = "LMSREC_"

// ConfigPathEnvVar 指定配置文件路径。
const ConfigPathEnvVar = "LMSREC_CONFIG"

// 数据源类型
const (
	SourceMongo = "mongo"
	SourceRedis = "redis"
	SourceFile  = "file"
)

// App 是应用配置。加载顺序：默认值 -> YAML 文件 -> 环境变量（优先级最高）。
type App struct {
	Source      string            `koanf:"source"` // mongo / redis / file
	Mongo       MongoConfig       `koanf:"mongo"`
	Dataset     DatasetConfig     `koanf:"dataset"`
	Redis       RedisConfig       `koanf:"redis"`
	Server      ServerConfig      `koanf:"server"`
	Log         logging.Config    `koanf:"log"`
	Recommender RecommenderConfig `koanf:"recommender"`
}

type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"` // 为空时使用 URI 中的库名
	Timeout  time.Duration `koanf:"timeout"`
}

type RedisConfig struct {
	Addr      string `koanf:"addr"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// DatasetConfig 是 file 数据源的 JSON 数据集路径。
type DatasetConfig struct {
	File string `koanf:"file"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	Mode string `koanf:"mode"` // gin 模式：debug / release / test
}

// Addr 返回监听地址。
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RecommenderConfig struct {
	CollabWeight  float64 `koanf:"collab_weight"`
	ContentWeight float64 `koanf:"content_weight"`
	TopKNeighbors int     `koanf:"top_k_neighbors"`
	TopicBoost    float64 `koanf:"topic_boost"`
	DefaultLimit  int     `koanf:"default_limit"`

	// PipelineFile 是后处理 Pipeline 的 YAML 文件（可选）
	PipelineFile string `koanf:"pipeline_file"`
}

// Default 返回默认配置。
func Default() *App {
	return &App{
		Source: SourceMongo,
		Mongo: MongoConfig{
			URI:     "mongodb://localhost:27017/trannghia",
			Timeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "lmsrec",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
			Mode: "release",
		},
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
		Recommender: RecommenderConfig{
			CollabWeight:  0.6,
			ContentWeight: 0.4,
			TopKNeighbors: 10,
			TopicBoost:    1.3,
			DefaultLimit:  5,
		},
	}
}

// Load 加载配置。path 为空时依次尝试 $LMSREC_CONFIG、lmsrec.yaml；文件不存在不是错误。
func Load(path string) (*App, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &App{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range []string{"lmsrec.yaml", "lmsrec.yml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform 把环境变量名映射为配置路径，返回空串表示忽略。
// MONGODB_URI 与 PORT 是沿用的旧变量名。
func envTransform(key string) string {
	switch key {
	case "MONGODB_URI":
		return "mongo.uri"
	case "PORT":
		return "server.port"
	case ConfigPathEnvVar:
		return ""
	}
	if !strings.HasPrefix(key, EnvPrefix) {
		return ""
	}
	section, field, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_")
	if !ok {
		return section
	}
	return section + "." + field
}

// Validate 校验配置。
func (c *App) Validate() error {
	switch c.Source {
	case SourceMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required when source is %q", SourceMongo)
		}
	case SourceRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when source is %q", SourceRedis)
		}
	case SourceFile:
		if c.Dataset.File == "" {
			return fmt.Errorf("dataset.file is required when source is %q", SourceFile)
		}
	default:
		return fmt.Errorf("unknown source %q (supported: %s, %s, %s)", c.Source, SourceMongo, SourceRedis, SourceFile)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	r := c.Recommender
	if r.CollabWeight < 0 || r.ContentWeight < 0 {
		return fmt.Errorf("recommender weights must be non-negative")
	}
	if r.TopKNeighbors <= 0 {
		return fmt.Errorf("recommender.top_k_neighbors must be positive")
	}
	if r.TopicBoost <= 0 {
		return fmt.Errorf("recommender.topic_boost must be positive")
	}
	if r.DefaultLimit <= 0 {
		return fmt.Errorf("recommender.default_limit must be positive")
	}
	return nil
}
