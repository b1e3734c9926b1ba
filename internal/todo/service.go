// Package todo はToDo管理のドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/monotodo/internal/model"
	"github.com/hitoshi/monotodo/internal/repository"
	"github.com/hitoshi/monotodo/internal/security"
)

// Service はToDo管理のサービス層。
// 一覧取得、作成、取得、部分更新、削除のビジネスロジックを提供する。
// すべての操作は認証済みユーザーのIDでスコープされ、
// 他ユーザーのToDoには未存在と同じ結果を返す。
type Service struct {
	todoRepo  repository.TodoRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(todoRepo repository.TodoRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		todoRepo:  todoRepo,
		sanitizer: sanitizer,
	}
}

// List はユーザーのToDo一覧を新しい順で返す。
// 2番目の戻り値はページネーション用の総件数。
func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]*model.Todo, int, error) {
	offset := (page - 1) * limit

	todos, err := s.todoRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("ToDo一覧の取得に失敗しました: %w", err)
	}

	total, err := s.todoRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("ToDo件数の取得に失敗しました: %w", err)
	}

	return todos, total, nil
}

// Create はToDoを作成する。タイトルと本文はHTMLを除去して保存する。
// タイトルは前後の空白もトリムし、結果が空になった場合はバリデーションエラー。
// 本文はHTML除去以外の変形をせず、空白を含めそのまま保存する。
func (s *Service) Create(ctx context.Context, userID, title string, content *string) (*model.Todo, error) {
	sanitizedTitle := strings.TrimSpace(s.sanitizer.Sanitize(title))
	if sanitizedTitle == "" {
		return nil, model.NewValidationError(map[string]string{
			"title": "title must not be empty",
		})
	}

	now := time.Now()
	todo := &model.Todo{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     sanitizedTitle,
		Content:   s.sanitizeContent(content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("ToDoの作成に失敗しました: %w", err)
	}
	return todo, nil
}

// Get はToDoを取得する。未存在・所有者不一致は (nil, nil)。
func (s *Service) Get(ctx context.Context, id, userID string) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("ToDoの取得に失敗しました: %w", err)
	}
	return todo, nil
}

// Update はToDoを部分更新する。未存在・所有者不一致は (nil, nil)。
// patchに含まれるフィールドのみを変更し、本文の明示的なnullはクリアとして扱う。
func (s *Service) Update(ctx context.Context, id, userID string, patch *model.TodoPatch) (*model.Todo, error) {
	sanitized := model.TodoPatch{
		ContentSet: patch.ContentSet,
	}
	if patch.Title != nil {
		title := strings.TrimSpace(s.sanitizer.Sanitize(*patch.Title))
		if title == "" {
			return nil, model.NewValidationError(map[string]string{
				"title": "title must not be empty",
			})
		}
		sanitized.Title = &title
	}
	if patch.Content != nil {
		sanitized.Content = s.sanitizeContent(patch.Content)
	}

	updated, err := s.todoRepo.UpdateByIDAndUser(ctx, id, userID, sanitized)
	if err != nil {
		return nil, fmt.Errorf("ToDoの更新に失敗しました: %w", err)
	}
	return updated, nil
}

// Delete はToDoを削除し、削除時点の内容を返す。未存在・所有者不一致は (nil, nil)。
func (s *Service) Delete(ctx context.Context, id, userID string) (*model.Todo, error) {
	deleted, err := s.todoRepo.DeleteByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("ToDoの削除に失敗しました: %w", err)
	}
	return deleted, nil
}

// sanitizeContent はnull許容の本文をサニタイズする。
func (s *Service) sanitizeContent(content *string) *string {
	if content == nil {
		return nil
	}
	sanitized := s.sanitizer.Sanitize(*content)
	return &sanitized
}
