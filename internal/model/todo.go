// Package model はドメインモデルを定義する。
package model

import "time"

// Todo はユーザーが所有するToDoレコードを表す。
// UserIDは作成時に確定し、以後変更されない。
// Contentはnull許容であり、nilは「本文なし」を意味する。
type Todo struct {
	ID        string
	UserID    string
	Title     string
	Content   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch はToDoの部分更新内容を表す。
// Titleがnilの場合はタイトルを変更しない。
// ContentSetがfalseの場合は本文を変更せず、
// trueかつContentがnilの場合は本文をクリアする。
// 「フィールド省略」と「明示的なnull」を区別するために必要な構造。
type TodoPatch struct {
	Title      *string
	Content    *string
	ContentSet bool
}

// IsEmpty は更新対象フィールドが1つも含まれていないかどうかを返す。
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && !p.ContentSet
}
