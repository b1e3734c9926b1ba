package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// seedPassword は開発用シードユーザー共通のパスワード。
const seedPassword = "password123"

// seedTodo はシード投入するToDoの定義。
type seedTodo struct {
	Title   string
	Content string // 空文字列の場合はNULLとして投入する
}

// seedUser はシード投入するユーザーの定義。
type seedUser struct {
	Name  string
	Email string
	Todos []seedTodo
}

// seedUsers は開発用のシードデータ。
// 各ユーザーはToDoを2件持ち、2件目は本文なし。
var seedUsers = []seedUser{
	{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Todos: []seedTodo{
			{Title: "Draft analytical engine notes", Content: "Capture ideas for translating Bernoulli algorithm."},
			{Title: "Review Charles's schematics"},
		},
	},
	{
		Name:  "Grace Hopper",
		Email: "grace@example.com",
		Todos: []seedTodo{
			{Title: "Schedule compiler demo", Content: "Walk through Hopper-Mauchly compiler progress."},
			{Title: "Refine COBOL syntax examples"},
		},
	},
	{
		Name:  "Alan Turing",
		Email: "alan@example.com",
		Todos: []seedTodo{
			{Title: "Complete Turing machine paper", Content: "Formalize computability theory concepts."},
			{Title: "Test codebreaking algorithm"},
		},
	},
	{
		Name:  "Hedy Lamarr",
		Email: "hedy@example.com",
		Todos: []seedTodo{
			{Title: "Patent frequency hopping technique", Content: "Secure military communication system."},
			{Title: "Meet with George Antheil"},
		},
	},
	{
		Name:  "Katherine Johnson",
		Email: "katherine@example.com",
		Todos: []seedTodo{
			{Title: "Calculate orbital trajectories", Content: "Verify astronaut flight paths for NASA."},
			{Title: "Review FORTRAN code"},
		},
	},
	{
		Name:  "Donald Knuth",
		Email: "donald@example.com",
		Todos: []seedTodo{
			{Title: "Write TAOCP volume 4", Content: "Document combinatorial algorithms."},
			{Title: "Debug TeX rendering engine"},
		},
	},
	{
		Name:  "Barbara Liskov",
		Email: "barbara@example.com",
		Todos: []seedTodo{
			{Title: "Design type system for CLU", Content: "Implement Liskov substitution principle."},
			{Title: "Code review abstraction layer"},
		},
	},
	{
		Name:  "Guido van Rossum",
		Email: "guido@example.com",
		Todos: []seedTodo{
			{Title: "Finalize Python 3.x syntax", Content: "Ensure backward compatibility considerations."},
			{Title: "Review PEP proposals"},
		},
	},
	{
		Name:  "Linus Torvalds",
		Email: "linus@example.com",
		Todos: []seedTodo{
			{Title: "Merge kernel patches", Content: "Review pull requests from contributors."},
			{Title: "Optimize memory management"},
		},
	},
	{
		Name:  "Sarah Flannery",
		Email: "sarah@example.com",
		Todos: []seedTodo{
			{Title: "Implement cryptography algorithm", Content: "Develop Cayley-Purser attack optimization."},
			{Title: "Prepare research presentation"},
		},
	},
}

// RunSeed は開発用シードデータを投入する。
// ユーザーごとに1トランザクションで投入し、メールアドレスが既に存在する場合はスキップする。
// 冪等に再実行できる。
func RunSeed(ctx context.Context, db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, su := range seedUsers {
		if err := seedOneUser(ctx, db, su, string(hash)); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", su.Email, err)
		}
	}

	return nil
}

// seedOneUser はユーザー1人とそのToDoを同一トランザクションで投入する。
func seedOneUser(ctx context.Context, db *sql.DB, su seedUser, passwordHash string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		su.Email,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil
	}

	userID := uuid.New().String()
	now := time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, name, email_verified, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, su.Email, su.Name, true, passwordHash, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	for _, st := range su.Todos {
		var content *string
		if st.Content != "" {
			c := st.Content
			content = &c
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO todos (id, user_id, title, content, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), userID, st.Title, content, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert todo: %w", err)
		}
	}

	return tx.Commit()
}
