package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hitoshi/monotodo/internal/model"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// 500レスポンスを返すミドルウェアを生成する。
// exposeDetailsがtrueの場合（非本番環境）はpanicの内容をレスポンスに含める。
func NewRecoveryMiddleware(exposeDetails bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("request_id", RequestIDFromContext(r.Context())),
						slog.String("stack", string(debug.Stack())),
					)

					apiErr := model.NewInternalError()
					if exposeDetails {
						apiErr.Fields = map[string]string{
							"panic": panicMessage(rec),
						}
					}
					WriteErrorResponse(w, http.StatusInternalServerError, apiErr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// panicMessage はpanic値を文字列化する。
func panicMessage(rec any) string {
	if err, ok := rec.(error); ok {
		return err.Error()
	}
	if s, ok := rec.(string); ok {
		return s
	}
	return "unexpected panic"
}
