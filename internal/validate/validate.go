// Package validate はリクエストのバリデーションを提供する。
//
// クエリパラメータとリクエストボディの検証ロジックをハンドラーから分離し、
// フィールドごとのエラーメッセージを返す。バリデーション失敗は
// model.NewValidationError に集約され、400レスポンスに変換される。
package validate

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ページネーションの制約値。
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination は検証済みのページネーションパラメータ。
type Pagination struct {
	Page  int
	Limit int
}

// Offset はSQLのOFFSET句に渡す値を返す。
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination はクエリ文字列のpage/limitを検証して返す。
// 省略時はデフォルト値を適用する。不正な値はフィールドごとの
// エラーメッセージとして2番目の戻り値に集める。
func ParsePagination(pageStr, limitStr string) (Pagination, map[string]string) {
	fields := make(map[string]string)
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			fields["page"] = "page must be a positive integer"
		} else {
			p.Page = page
		}
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fields["limit"] = "limit must be a positive integer"
		} else if limit > MaxLimit {
			fields["limit"] = "limit must be at most 100"
		} else {
			p.Limit = limit
		}
	}

	if len(fields) > 0 {
		return Pagination{}, fields
	}
	return p, nil
}

// TodoID はパスパラメータのToDo IDがUUID形式かを検証する。
// 形式不正は404ではなくバリデーションエラー（400）として扱う。
func TodoID(id string) map[string]string {
	if _, err := uuid.Parse(id); err != nil {
		return map[string]string{"id": "id must be a valid UUID"}
	}
	return nil
}

// todoTitle はToDoタイトルの共通検証。空白のみのタイトルは不可。
func todoTitle(title string) (string, string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", "title must not be empty"
	}
	return trimmed, ""
}

// Email は簡易的なメールアドレス形式の検証を行う。
// 厳密なRFC準拠ではなく、@の前後に文字があることのみを確認する。
func Email(email string) string {
	trimmed := strings.TrimSpace(email)
	at := strings.Index(trimmed, "@")
	if at < 1 || at == len(trimmed)-1 {
		return "email must be a valid email address"
	}
	return ""
}

// パスワードの最小文字数。
const minPasswordLength = 8

// Password はパスワードの最小長を検証する。
func Password(password string) string {
	if len(password) < minPasswordLength {
		return "password must be at least 8 characters"
	}
	return ""
}
