package validate

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/hitoshi/monotodo/internal/model"
)

// ErrMalformedJSON はリクエストボディがJSONとして解析できない場合のエラー。
var ErrMalformedJSON = errors.New("malformed json body")

// TodoCreateInput は検証済みのToDo作成パラメータ。
type TodoCreateInput struct {
	Title   string
	Content *string
}

// todoCreateRequest はToDo作成リクエストのボディ。
type todoCreateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// DecodeTodoCreate はToDo作成リクエストを解析・検証する。
// JSONの解析失敗はErrMalformedJSON、フィールドの検証失敗は
// フィールドごとのメッセージを2番目の戻り値で返す。
func DecodeTodoCreate(body io.Reader) (*TodoCreateInput, map[string]string, error) {
	var req todoCreateRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, nil, ErrMalformedJSON
	}

	fields := make(map[string]string)

	if req.Title == nil {
		fields["title"] = "title is required"
	} else if trimmed, msg := todoTitle(*req.Title); msg != "" {
		fields["title"] = msg
	} else {
		req.Title = &trimmed
	}

	if len(fields) > 0 {
		return nil, fields, nil
	}
	return &TodoCreateInput{Title: *req.Title, Content: req.Content}, nil, nil
}

// todoUpdateRequest はToDo更新リクエストのボディ。
// contentはRawMessageで受けることで「省略」と「明示的なnull」を区別する。
type todoUpdateRequest struct {
	Title   *string         `json:"title"`
	Content json.RawMessage `json:"content"`
}

// DecodeTodoUpdate はToDo部分更新リクエストを解析・検証する。
// contentフィールドの3状態を区別する:
//   - 省略: ContentSet=false（変更しない）
//   - null: ContentSet=true, Content=nil（クリアする）
//   - 文字列: ContentSet=true, Content=値（置き換える）
//
// 更新対象フィールドが1つもないボディはバリデーションエラー。
func DecodeTodoUpdate(body io.Reader) (*model.TodoPatch, map[string]string, error) {
	var req todoUpdateRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, nil, ErrMalformedJSON
	}

	fields := make(map[string]string)
	patch := &model.TodoPatch{}

	if req.Title != nil {
		if trimmed, msg := todoTitle(*req.Title); msg != "" {
			fields["title"] = msg
		} else {
			patch.Title = &trimmed
		}
	}

	if req.Content != nil {
		patch.ContentSet = true
		if string(req.Content) != "null" {
			var content string
			if err := json.Unmarshal(req.Content, &content); err != nil {
				fields["content"] = "content must be a string or null"
			} else {
				patch.Content = &content
			}
		}
	}

	if len(fields) > 0 {
		return nil, fields, nil
	}
	if patch.IsEmpty() {
		return nil, map[string]string{"body": "at least one field must be provided"}, nil
	}
	return patch, nil, nil
}
