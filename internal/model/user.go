// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュであり、APIレスポンスには決して含めない。
type User struct {
	ID            string
	Email         string
	Name          string
	EmailVerified bool
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session はユーザーのログインセッションを表す。
// IDはcrypto/randで生成した64文字のhexトークン。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity はリクエストに対して解決済みの (user, session) ペアを表す。
// セッションリゾルバが有効なセッションを見つけた場合のみ生成される。
// 未認証リクエストではnilとなり、それはエラーではなく正常な状態である。
type Identity struct {
	User    *User
	Session *Session
}
