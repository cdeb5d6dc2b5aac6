// Package config は環境変数と .env ファイルからアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shouni/gemini-image-studio/pkg/generator"
	"github.com/shouni/gemini-image-studio/pkg/server"
	"github.com/shouni/gemini-image-studio/pkg/studio"
)

const defaultMaxUploadMB = 10

// Config はサーバー起動に必要な設定です。
type Config struct {
	// Server
	Addr      string
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json

	// API キーは実行環境から供給される
	APIKey string

	ImageModel string
	EditModel  string

	MaxUploadSize int64
	SessionTTL    time.Duration

	// 生成リクエストのクライアントごとのレート制限
	SubmitRPS   float64
	SubmitBurst int
}

// Load は .env があれば読み込んだ上で、環境変数から設定を作成して検証します。
func Load() (*Config, error) {
	// .env は任意
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getEnvOrDefault("STUDIO_ADDR", ":8080"),
		LogLevel:      getEnvOrDefault("STUDIO_LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("STUDIO_LOG_FORMAT", "text"),
		APIKey:        firstNonEmpty(os.Getenv("API_KEY"), os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		ImageModel:    getEnvOrDefault("STUDIO_IMAGE_MODEL", generator.DefaultImageModel),
		EditModel:     getEnvOrDefault("STUDIO_EDIT_MODEL", generator.DefaultEditModel),
		MaxUploadSize: int64(getEnvIntOrDefault("STUDIO_MAX_UPLOAD_MB", defaultMaxUploadMB)) << 20,
		SessionTTL:    getEnvDurationOrDefault("STUDIO_SESSION_TTL", studio.DefaultSessionTTL),
		SubmitRPS:     getEnvFloatOrDefault("STUDIO_SUBMIT_RPS", server.DefaultSubmitRPS),
		SubmitBurst:   getEnvIntOrDefault("STUDIO_SUBMIT_BURST", server.DefaultSubmitBurst),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は必須項目と値の範囲を確認します。
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required (GEMINI_API_KEY or GOOGLE_API_KEY are also accepted)")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("STUDIO_MAX_UPLOAD_MB must be positive")
	}
	if c.SubmitRPS <= 0 || c.SubmitBurst <= 0 {
		return fmt.Errorf("STUDIO_SUBMIT_RPS and STUDIO_SUBMIT_BURST must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s (must be text or json)", c.LogFormat)
	}
	return nil
}

// ParseLevel はログレベル名を slog.Level に変換します。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (must be debug, info, warn, or error)", s)
	}
}

// NewLogger は設定に従って slog.Logger を作成します。
func (c *Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
