// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/monotodo/internal/middleware"
	"github.com/hitoshi/monotodo/internal/model"
)

// dataResponse は成功レスポンスの統一エンベロープ。
type dataResponse struct {
	Data any `json:"data"`
}

// listResponse はページネーション付き一覧レスポンスのエンベロープ。
type listResponse struct {
	Data any      `json:"data"`
	Meta listMeta `json:"meta"`
}

// listMeta はページネーションのメタ情報。
type listMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeData はデータエンベロープの成功レスポンスを書き込む。
func writeData(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, dataResponse{Data: data})
}

// writeList はメタ情報付きの一覧レスポンスを書き込む。
func writeList(w http.ResponseWriter, data any, meta listMeta) {
	writeJSON(w, http.StatusOK, listResponse{Data: data, Meta: meta})
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Error:   apiErr.Message,
		Details: apiErr.Fields,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外のエラーは詳細をログにのみ記録し、一般的な500レスポンスを返す。
// exposeDetailsがtrueの場合（非本番環境）はエラー内容をレスポンスに含める。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, exposeDetails bool) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)

	resp := model.NewInternalError()
	if exposeDetails {
		resp.Fields = map[string]string{"detail": err.Error()}
	}
	writeAPIErrorResponse(w, http.StatusInternalServerError, resp)
}

// mapAPIErrorToHTTPStatus はAPIErrorのコードをHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeTodoNotFound, model.ErrCodeRouteNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
