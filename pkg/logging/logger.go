// Package logging 提供基于 zerolog 的全局日志。
//
// 在入口处初始化：
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//
// 组件通过 With 获取带 component 字段的 logger：
//
//	log := logging.With("hybrid")
//	log.Debug().Str("user_id", id).Msg("recommend")
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level: trace, debug, info, warn, error, disabled（默认 info）
	Level string `koanf:"level"`

	// Format: json 或 console（默认 json）
	Format string `koanf:"format"`

	// Output 默认 os.Stderr
	Output io.Writer `koanf:"-"`
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	initLogger(Config{})
}

// Init 重新配置全局 logger，可多次调用。
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

func initLogger(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}
	log = zerolog.New(output).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger 返回全局 logger 的副本。
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With 返回带 component 字段的子 logger。
func With(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log.With().Str("component", component).Logger()
}
