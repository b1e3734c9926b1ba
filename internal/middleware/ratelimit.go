package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/monotodo/internal/model"
)

// RateLimitRule は1つのレート制限ルールを表す。
// Windowあたり最大Maxリクエストを許可する。
type RateLimitRule struct {
	Name   string
	Max    int
	Window time.Duration
}

// rateLimit はルールをトークンバケットのレートに変換する。
func (r RateLimitRule) rateLimit() rate.Limit {
	return rate.Limit(float64(r.Max) / r.Window.Seconds())
}

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GlobalRule      RateLimitRule // 全エンドポイント共通のルール
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 全体: 60秒あたり100リクエスト/クライアント。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GlobalRule:      RateLimitRule{Name: "global", Max: 100, Window: 60 * time.Second},
		CleanupInterval: 5 * time.Minute,
	}
}

// 認証エンドポイント個別のレート制限ルール。
// 認証前のリクエストに適用されるため、クライアントIPでキーする。
var (
	// SignInRule はサインイン試行の制限。ブルートフォース対策として厳しめ。
	SignInRule = RateLimitRule{Name: "sign_in", Max: 3, Window: 10 * time.Second}
	// SignUpRule はサインアップの制限。
	SignUpRule = RateLimitRule{Name: "sign_up", Max: 5, Window: 60 * time.Second}
	// GetSessionRule はセッション確認の制限。ポーリング前提で緩め。
	GetSessionRule = RateLimitRule{Name: "get_session", Max: 200, Window: 60 * time.Second}
)

// clientLimiter はクライアントごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントIPごとのレート制限を管理する。
// ルール名ごとに独立したリミッターのマップを持つ。
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	limiters map[string]map[string]*clientLimiter // ルール名 → クライアントIP → リミッター

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GlobalMiddleware は全エンドポイント共通のレート制限ミドルウェアを返す。
func (rl *RateLimiter) GlobalMiddleware() func(next http.Handler) http.Handler {
	return rl.Middleware(rl.config.GlobalRule)
}

// Middleware は指定ルールのレート制限ミドルウェアを返す。
// クライアントIPをキーとし、超過時には429とRetry-Afterを返す。
func (rl *RateLimiter) Middleware(rule RateLimitRule) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			limiter := rl.getOrCreateLimiter(rule, ip)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rule.rateLimit())
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("rule", rule.Name),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LimiterCount は指定ルールで現在管理されているエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) LimiterCount(ruleName string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters[ruleName])
}

// getOrCreateLimiter はルールとクライアントの組のリミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateLimiter(rule RateLimitRule, ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	byClient, ok := rl.limiters[rule.Name]
	if !ok {
		byClient = make(map[string]*clientLimiter)
		rl.limiters[rule.Name] = byClient
	}

	if cl, ok := byClient[ip]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rule.rateLimit(), rule.Max)
	byClient[ip] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for _, byClient := range rl.limiters {
		for ip, cl := range byClient {
			if now.Sub(cl.lastAccess) > ttl {
				delete(byClient, ip)
			}
		}
	}
}

// clientIP はリクエスト元のクライアントIPを返す。
// リバースプロキシ経由の場合はX-Forwarded-Forの先頭を優先する。
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteErrorResponse(w, http.StatusTooManyRequests, &model.APIError{
		Code:    "RATE_LIMIT_EXCEEDED",
		Message: "Too many requests",
	})
}
