package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/monotodo/internal/metrics"
	"github.com/hitoshi/monotodo/internal/middleware"
	"github.com/hitoshi/monotodo/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	HealthChecker     DBPinger
	SessionResolver   middleware.SessionResolver
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter // nilの場合はレート制限なし

	// メトリクス
	MetricsCollector metrics.MetricsCollector
	MetricsGatherer  prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ToDo
	TodoService TodoServiceInterface

	// 非本番環境でエラー詳細をレスポンスに含めるか
	ExposeErrors bool
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CORS → Metrics → Session
//
// セッションミドルウェアは全ルートに適用されるが認証を強制しない。
// ToDoルートのみRequireAuthで認証を要求する。
// /health と /metrics はCSRF・レート制限の対象外。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware(deps.ExposeErrors))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.MetricsCollector != nil {
		r.Use(metrics.NewMiddleware(deps.MetricsCollector))
	}
	r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	todoHandler := NewTodoHandler(deps.TodoService, deps.ExposeErrors)

	// 未定義ルートへのアクセスは統一フォーマットの404
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRouteNotFoundError())
	})

	// --- 運用エンドポイント（CSRF・レート制限の対象外） ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// GET /session - 現在の認証状態（フロントエンドの起動時確認用）
	// 未認証は /api/v1/auth/get-session と異なり401を返す
	r.With(middleware.NewRequireAuthMiddleware()).Get("/session", authHandler.GetSession)

	// --- APIルート ---

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GlobalMiddleware())
		}

		r.Get("/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

		// 認証（レート制限はエンドポイント別ルールを追加適用）
		r.Route("/auth", func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.Middleware(middleware.SignUpRule)).
					Post("/sign-up/email", authHandler.SignUp)
				r.With(deps.RateLimiter.Middleware(middleware.SignInRule)).
					Post("/sign-in/email", authHandler.SignIn)
				r.With(deps.RateLimiter.Middleware(middleware.GetSessionRule)).
					Get("/get-session", authHandler.GetSession)
			} else {
				r.Post("/sign-up/email", authHandler.SignUp)
				r.Post("/sign-in/email", authHandler.SignIn)
				r.Get("/get-session", authHandler.GetSession)
			}
			r.Post("/sign-out", authHandler.SignOut)
		})

		// ToDo管理（認証必須）
		r.Route("/todos", func(r chi.Router) {
			r.Use(middleware.NewRequireAuthMiddleware())

			r.Get("/", todoHandler.ListTodos)
			r.Post("/", todoHandler.CreateTodo)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", todoHandler.GetTodo)
				r.Patch("/", todoHandler.UpdateTodo)
				r.Delete("/", todoHandler.DeleteTodo)
			})
		})
	})

	return r
}
