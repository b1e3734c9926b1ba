package config

import (
	"fmt"
	"os"
	"strconv"
)

// 環境モードの定義値。APP_ENVで指定する。
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string
	AppEnv     string

	// Session
	SessionMaxAge int // セッション有効期間（秒）

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string

	// Rate Limit
	RateLimitEnabled bool
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "8000")
	cfg.AppEnv = getEnvString("APP_ENV", EnvDevelopment)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 604800) // 7日
	cfg.CookieSecure = cfg.AppEnv == EnvProduction
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	// レート制限は本番では常時有効。開発環境ではRATE_LIMIT_ENABLED=trueで明示的に有効化する。
	cfg.RateLimitEnabled = cfg.AppEnv == EnvProduction || getEnvBool("RATE_LIMIT_ENABLED", false)

	return cfg, nil
}

// IsProduction は本番環境モードかどうかを返す。
// 500レスポンスに診断情報を含めるかどうかの判定に使用する。
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
