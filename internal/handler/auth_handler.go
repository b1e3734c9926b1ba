package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/monotodo/internal/middleware"
	"github.com/hitoshi/monotodo/internal/model"
	"github.com/hitoshi/monotodo/internal/validate"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// SignUp はユーザーを登録し、セッションを発行する。
	SignUp(ctx context.Context, email, name, password string) (*model.Identity, error)
	// SignIn は認証情報を検証し、セッションを発行する。
	SignIn(ctx context.Context, email, password string) (*model.Identity, error)
	// SignOut はセッションを破棄する。冪等。
	SignOut(ctx context.Context, sessionID string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int  // セッションCookieの有効期間（秒）
	ExposeErrors  bool // 非本番環境でエラー詳細をレスポンスに含めるか
}

// AuthHandler はメールアドレス認証のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// sessionResponse はセッション情報のAPIレスポンス。
// トークン自体はHTTP Only Cookieでのみ受け渡すため含めない。
type sessionResponse struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// identityResponse は認証状態のAPIレスポンス。
type identityResponse struct {
	User    userResponse    `json:"user"`
	Session sessionResponse `json:"session"`
}

// SignUp はユーザー登録を処理する。
// POST /api/v1/auth/sign-up/email
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	input, fields, err := validate.DecodeSignUp(r.Body)
	if err != nil {
		writeMalformedBodyError(w)
		return
	}
	if fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	identity, err := h.service.SignUp(r.Context(), input.Email, input.Name, input.Password)
	if err != nil {
		handleServiceError(w, r, err, h.config.ExposeErrors)
		return
	}

	h.setSessionCookie(w, identity.Session.ID)
	writeData(w, http.StatusCreated, toIdentityResponse(identity))
}

// SignIn はサインインを処理する。
// POST /api/v1/auth/sign-in/email
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	input, fields, err := validate.DecodeSignIn(r.Body)
	if err != nil {
		writeMalformedBodyError(w)
		return
	}
	if fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	identity, err := h.service.SignIn(r.Context(), input.Email, input.Password)
	if err != nil {
		handleServiceError(w, r, err, h.config.ExposeErrors)
		return
	}

	h.setSessionCookie(w, identity.Session.ID)
	writeData(w, http.StatusOK, toIdentityResponse(identity))
}

// SignOut はセッションを破棄する。
// POST /api/v1/auth/sign-out
// セッションCookieの有無に関わらず成功レスポンスを返す（冪等）。
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if signOutErr := h.service.SignOut(r.Context(), cookie.Value); signOutErr != nil {
			// サインアウト失敗してもCookieはクリアする
			handleServiceError(w, r, signOutErr, h.config.ExposeErrors)
			return
		}
	}

	h.clearSessionCookie(w)
	writeData(w, http.StatusOK, map[string]bool{"success": true})
}

// GetSession は現在の認証状態を返す。
// GET /api/v1/auth/get-session
// 未認証の場合もエラーではなくdata: nullを返す。
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeData(w, http.StatusOK, nil)
		return
	}
	writeData(w, http.StatusOK, toIdentityResponse(identity))
}

// setSessionCookie はセッションCookieをレスポンスに設定する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieをクリアする。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeMalformedBodyError はJSON解析失敗の400レスポンスを書き込む。
func writeMalformedBodyError(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(map[string]string{
		"body": "request body must be valid JSON",
	}))
}

// toIdentityResponse はmodel.IdentityをAPIレスポンスに変換する。
func toIdentityResponse(identity *model.Identity) identityResponse {
	return identityResponse{
		User: userResponse{
			ID:            identity.User.ID,
			Email:         identity.User.Email,
			Name:          identity.User.Name,
			EmailVerified: identity.User.EmailVerified,
			CreatedAt:     identity.User.CreatedAt,
			UpdatedAt:     identity.User.UpdatedAt,
		},
		Session: sessionResponse{
			UserID:    identity.Session.UserID,
			ExpiresAt: identity.Session.ExpiresAt,
			CreatedAt: identity.Session.CreatedAt,
		},
	}
}
