// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/monotodo/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証情報を格納するためのキー。
var identityContextKey = contextKey("identity")

// SessionResolver はセッショントークンから認証情報を解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type SessionResolver interface {
	// ResolveSession はトークンに対応するユーザーとセッションを返す。
	// 未知・期限切れのトークンは (nil, nil)。エラーはストレージ障害のみ。
	ResolveSession(ctx context.Context, token string) (*model.Identity, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 認証情報をリクエストコンテキストに注入するミドルウェアを返す。
//
// このミドルウェア自体はリクエストを拒否しない。Cookieが無い・
// トークンが無効・ストレージ障害のいずれの場合も認証情報なしで
// 後続に委譲し、認証の要求はRequireAuthに委ねる。これにより
// 公開エンドポイント（サインアップ等）と保護エンドポイントが
// 同じ解決パスを共有できる。
func NewSessionMiddleware(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				// ストレージ障害は未認証として扱い、ログにのみ記録する
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRequireAuthMiddleware は認証済みリクエストのみを通過させるミドルウェアを返す。
// SessionMiddlewareの後に配置する。未認証リクエストには401を返す。
func NewRequireAuthMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := IdentityFromContext(r.Context()); err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証情報を取得する。
// セッションミドルウェアで認証されたリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || identity == nil || identity.User == nil {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストに認証情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// UserIDFromContext はリクエストコンテキストから認証済みユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	identity, err := IdentityFromContext(ctx)
	if err != nil {
		return "", err
	}
	return identity.User.ID, nil
}
