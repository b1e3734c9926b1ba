// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/monotodo/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
// サービス層で409レスポンスにマッピングされる。
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。
	// 見つからない場合および期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// TodoRepository はToDoデータの永続化インターフェース。
// 全ての読み書きは (id, user_id) の複合条件でスコープされ、
// 所有者以外のレコードには決して到達しない。
type TodoRepository interface {
	// ListByUser は指定ユーザーのToDo一覧をcreated_at降順（同時刻はid降順）で返す。
	// offsetとlimitでページネーションする。
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Todo, error)

	// CountByUser は指定ユーザーが所有するToDoの総数を返す。
	CountByUser(ctx context.Context, userID string) (int, error)

	// Create はToDoを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// FindByIDAndUser は (id, user_id) でToDoを取得する。
	// 該当行がない場合（IDが存在しない、または他ユーザー所有）はnilを返す。
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Todo, error)

	// UpdateByIDAndUser は (id, user_id) でスコープした部分更新を行い、更新後の行を返す。
	// 該当行がない場合はnilを返す。patchが空の場合の挙動は未定義（呼び出し側で弾く）。
	UpdateByIDAndUser(ctx context.Context, id, userID string, patch model.TodoPatch) (*model.Todo, error)

	// DeleteByIDAndUser は (id, user_id) でスコープした削除を行い、削除直前の行を返す。
	// 該当行がない場合はnilを返す。
	DeleteByIDAndUser(ctx context.Context, id, userID string) (*model.Todo, error)
}
