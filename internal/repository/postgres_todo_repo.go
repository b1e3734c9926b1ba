package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/monotodo/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したToDoリポジトリ。
// 全クエリが (id, user_id) の複合条件でスコープされるため、
// 存在しないIDと他ユーザー所有のIDは等しく「該当行なし」となる。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// todoColumns はSELECT/RETURNINGで取得するカラムの並び。
const todoColumns = "id, user_id, title, content, created_at, updated_at"

// ListByUser は指定ユーザーのToDo一覧をcreated_at降順で返す。
// 同一タイムスタンプでもページネーションが安定するよう、id降順を第2キーとする。
func (r *PostgresTodoRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+`
		 FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*model.Todo, 0, limit)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// CountByUser は指定ユーザーが所有するToDoの総数を返す。
func (r *PostgresTodoRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM todos WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

// Create はToDoを作成する。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, user_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		todo.ID, todo.UserID, todo.Title, todo.Content, todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// FindByIDAndUser は (id, user_id) でToDoを取得する。該当行がない場合はnilを返す。
func (r *PostgresTodoRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	return todo, nil
}

// UpdateByIDAndUser は (id, user_id) でスコープした部分更新を行い、更新後の行を返す。
// patchに含まれるフィールドのみをSET句に組み立てる。
// ContentSetかつContentがnilの場合はcontentをNULLにクリアする。
// 該当行がない場合はnilを返す。
func (r *PostgresTodoRepo) UpdateByIDAndUser(ctx context.Context, id, userID string, patch model.TodoPatch) (*model.Todo, error) {
	set := []string{"updated_at = now()"}
	args := []any{}
	n := 1

	if patch.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.ContentSet {
		set = append(set, fmt.Sprintf("content = $%d", n))
		args = append(args, patch.Content)
		n++
	}

	query := fmt.Sprintf(
		`UPDATE todos SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(set, ", "), n, n+1, todoColumns,
	)
	args = append(args, id, userID)

	row := r.db.QueryRowContext(ctx, query, args...)

	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// DeleteByIDAndUser は (id, user_id) でスコープした削除を行い、削除直前の行を返す。
// 該当行がない場合はnilを返す。
func (r *PostgresTodoRepo) DeleteByIDAndUser(ctx context.Context, id, userID string) (*model.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2 RETURNING `+todoColumns,
		id, userID,
	)

	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	return todo, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通スキャンインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodo は1行をmodel.Todoにスキャンする。
// contentはNULL許容のため**stringで受け、NULLはnilになる。
func scanTodo(row rowScanner) (*model.Todo, error) {
	todo := &model.Todo{}
	err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Content, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
