// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// MessageがそのままレスポンスのerrorフィールドとなるAPI契約上の文字列。
// Fieldsはバリデーション失敗時のフィールド別エラー詳細を保持する。
type APIError struct {
	Code    string            // エラーコード
	Message string            // エラーメッセージ（レスポンスのerrorフィールド）
	Fields  map[string]string // フィールド別エラー（バリデーション失敗時のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeTodoNotFound       = "TODO_NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeRouteNotFound      = "ROUTE_NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewUnauthorizedError は認証失敗エラーを生成する。
// 未認証リクエストがToDoリソースに到達した場合に使用する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "Unauthorized",
	}
}

// NewTodoNotFoundError はToDo未検出エラーを生成する。
// 存在しないIDと他ユーザー所有のIDは意図的に区別しない。
// 他ユーザーのレコードの存在が漏れるのを防ぐための情報隠蔽ポリシー。
func NewTodoNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeTodoNotFound,
		Message: "Todo not found",
	}
}

// NewValidationError はバリデーション失敗エラーを生成する。
// fieldsには不正だったフィールド名と原因のペアを渡す。
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
// サインアップ時のDB一意制約違反を409にマッピングする。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:    ErrCodeEmailTaken,
		Message: "Email already in use",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレス未登録とパスワード不一致は区別せず同一メッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
	}
}

// NewInternalError は内部サーバーエラーを生成する。
// 原因の詳細はレスポンスに含めず、ログにのみ記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
	}
}

// NewRouteNotFoundError は未定義ルートへのアクセスエラーを生成する。
func NewRouteNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeRouteNotFound,
		Message: "Not Found",
	}
}
