package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/monotodo/internal/middleware"
	"github.com/hitoshi/monotodo/internal/model"
	"github.com/hitoshi/monotodo/internal/validate"
)

// TodoServiceInterface はToDoハンドラーが必要とするサービスインターフェース。
type TodoServiceInterface interface {
	// List はユーザーのToDo一覧をページネーション付きで返す。
	List(ctx context.Context, userID string, page, limit int) ([]*model.Todo, int, error)
	// Create はToDoを作成する。
	Create(ctx context.Context, userID, title string, content *string) (*model.Todo, error)
	// Get はToDoを取得する。所有者不一致・未存在は (nil, nil)。
	Get(ctx context.Context, id, userID string) (*model.Todo, error)
	// Update はToDoを部分更新する。所有者不一致・未存在は (nil, nil)。
	Update(ctx context.Context, id, userID string, patch *model.TodoPatch) (*model.Todo, error)
	// Delete はToDoを削除し、削除時点の内容を返す。所有者不一致・未存在は (nil, nil)。
	Delete(ctx context.Context, id, userID string) (*model.Todo, error)
}

// TodoHandler はToDo管理のHTTPハンドラー。
type TodoHandler struct {
	service      TodoServiceInterface
	exposeErrors bool
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(service TodoServiceInterface, exposeErrors bool) *TodoHandler {
	return &TodoHandler{
		service:      service,
		exposeErrors: exposeErrors,
	}
}

// todoResponse はToDoのAPIレスポンス。
// contentはnull許容で、未設定の場合はJSONのnullになる。
type todoResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListTodos はユーザーのToDo一覧を取得する。
// GET /api/v1/todos?page=1&limit=10
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	pagination, fields := validate.ParsePagination(
		r.URL.Query().Get("page"),
		r.URL.Query().Get("limit"),
	)
	if fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	todos, total, err := h.service.List(r.Context(), identity.User.ID, pagination.Page, pagination.Limit)
	if err != nil {
		handleServiceError(w, r, err, h.exposeErrors)
		return
	}

	responses := make([]todoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = toTodoResponse(todo)
	}

	writeList(w, responses, listMeta{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		Total:      total,
		TotalPages: totalPages(total, pagination.Limit),
	})
}

// CreateTodo はToDoを作成する。
// POST /api/v1/todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	input, fields, err := validate.DecodeTodoCreate(r.Body)
	if err != nil {
		writeMalformedBodyError(w)
		return
	}
	if fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	todo, err := h.service.Create(r.Context(), identity.User.ID, input.Title, input.Content)
	if err != nil {
		handleServiceError(w, r, err, h.exposeErrors)
		return
	}

	writeData(w, http.StatusCreated, toTodoResponse(todo))
}

// GetTodo はToDoの詳細を取得する。
// GET /api/v1/todos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id := chi.URLParam(r, "id")
	if fields := validate.TodoID(id); fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	todo, err := h.service.Get(r.Context(), id, identity.User.ID)
	if err != nil {
		handleServiceError(w, r, err, h.exposeErrors)
		return
	}
	if todo == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewTodoNotFoundError())
		return
	}

	writeData(w, http.StatusOK, toTodoResponse(todo))
}

// UpdateTodo はToDoを部分更新する。
// PATCH /api/v1/todos/{id}
// contentの「省略」と「明示的なnull」を区別する:
// 省略は変更なし、nullはクリアとして扱う。
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id := chi.URLParam(r, "id")
	if fields := validate.TodoID(id); fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	patch, fields, err := validate.DecodeTodoUpdate(r.Body)
	if err != nil {
		writeMalformedBodyError(w)
		return
	}
	if fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	todo, err := h.service.Update(r.Context(), id, identity.User.ID, patch)
	if err != nil {
		handleServiceError(w, r, err, h.exposeErrors)
		return
	}
	if todo == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewTodoNotFoundError())
		return
	}

	writeData(w, http.StatusOK, toTodoResponse(todo))
}

// DeleteTodo はToDoを削除する。
// DELETE /api/v1/todos/{id}
// レスポンスには削除時点のToDoの内容を含める。
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id := chi.URLParam(r, "id")
	if fields := validate.TodoID(id); fields != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	todo, err := h.service.Delete(r.Context(), id, identity.User.ID)
	if err != nil {
		handleServiceError(w, r, err, h.exposeErrors)
		return
	}
	if todo == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewTodoNotFoundError())
		return
	}

	writeData(w, http.StatusOK, toTodoResponse(todo))
}

// toTodoResponse はmodel.TodoからAPIレスポンスに変換する。
func toTodoResponse(todo *model.Todo) todoResponse {
	return todoResponse{
		ID:        todo.ID,
		UserID:    todo.UserID,
		Title:     todo.Title,
		Content:   todo.Content,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

// totalPages は総件数とページサイズから総ページ数を算出する。
func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
