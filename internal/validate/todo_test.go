package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeTodoCreate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantTitle   string
		wantContent *string
		wantField   string
		wantErr     bool
	}{
		{
			name:      "タイトルのみ",
			body:      `{"title":"Buy milk"}`,
			wantTitle: "Buy milk",
		},
		{
			name:        "タイトルと本文",
			body:        `{"title":"Buy milk","content":"2 liters"}`,
			wantTitle:   "Buy milk",
			wantContent: strPtr("2 liters"),
		},
		{
			name:      "タイトルの前後空白はトリム",
			body:      `{"title":"  Buy milk  "}`,
			wantTitle: "Buy milk",
		},
		{
			name:        "明示的なcontent=nullは省略と同じ",
			body:        `{"title":"Buy milk","content":null}`,
			wantTitle:   "Buy milk",
			wantContent: nil,
		},
		{
			name:      "タイトル欠如は拒否",
			body:      `{"content":"orphan"}`,
			wantField: "title",
		},
		{
			name:      "空タイトルは拒否",
			body:      `{"title":""}`,
			wantField: "title",
		},
		{
			name:      "空白のみのタイトルは拒否",
			body:      `{"title":"   "}`,
			wantField: "title",
		},
		{
			name:    "不正なJSONはエラー",
			body:    `{"title":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, fields, err := DecodeTodoCreate(strings.NewReader(tt.body))

			if tt.wantErr {
				if !errors.Is(err, ErrMalformedJSON) {
					t.Fatalf("expected ErrMalformedJSON, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantField != "" {
				if fields[tt.wantField] == "" {
					t.Fatalf("expected error for field %q, got %v", tt.wantField, fields)
				}
				return
			}

			if fields != nil {
				t.Fatalf("unexpected field errors: %v", fields)
			}
			if input.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", input.Title, tt.wantTitle)
			}
			if (input.Content == nil) != (tt.wantContent == nil) {
				t.Fatalf("content presence mismatch: got %v, want %v", input.Content, tt.wantContent)
			}
			if input.Content != nil && *input.Content != *tt.wantContent {
				t.Errorf("content = %q, want %q", *input.Content, *tt.wantContent)
			}
		})
	}
}

func TestDecodeTodoUpdate(t *testing.T) {
	t.Run("タイトルのみの更新", func(t *testing.T) {
		patch, fields, err := DecodeTodoUpdate(strings.NewReader(`{"title":"Updated"}`))
		if err != nil || fields != nil {
			t.Fatalf("unexpected failure: err=%v fields=%v", err, fields)
		}
		if patch.Title == nil || *patch.Title != "Updated" {
			t.Errorf("title = %v, want Updated", patch.Title)
		}
		if patch.ContentSet {
			t.Error("content should be untouched when omitted")
		}
	})

	t.Run("content省略とnullを区別する", func(t *testing.T) {
		// 省略: ContentSetはfalse
		patch, _, err := DecodeTodoUpdate(strings.NewReader(`{"title":"x"}`))
		if err != nil {
			t.Fatal(err)
		}
		if patch.ContentSet {
			t.Error("omitted content must not set ContentSet")
		}

		// 明示的なnull: ContentSetはtrue、値はnil
		patch, _, err = DecodeTodoUpdate(strings.NewReader(`{"content":null}`))
		if err != nil {
			t.Fatal(err)
		}
		if !patch.ContentSet || patch.Content != nil {
			t.Errorf("explicit null: ContentSet=%v Content=%v, want true/nil", patch.ContentSet, patch.Content)
		}
	})

	t.Run("content文字列の更新", func(t *testing.T) {
		patch, fields, err := DecodeTodoUpdate(strings.NewReader(`{"content":"new note"}`))
		if err != nil || fields != nil {
			t.Fatalf("unexpected failure: err=%v fields=%v", err, fields)
		}
		if !patch.ContentSet || patch.Content == nil || *patch.Content != "new note" {
			t.Errorf("got ContentSet=%v Content=%v", patch.ContentSet, patch.Content)
		}
	})

	t.Run("空のボディは拒否", func(t *testing.T) {
		_, fields, err := DecodeTodoUpdate(strings.NewReader(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		if fields["body"] == "" {
			t.Errorf("empty patch should fail validation, got %v", fields)
		}
	})

	t.Run("空タイトルは拒否", func(t *testing.T) {
		_, fields, err := DecodeTodoUpdate(strings.NewReader(`{"title":"  "}`))
		if err != nil {
			t.Fatal(err)
		}
		if fields["title"] == "" {
			t.Errorf("blank title should fail validation, got %v", fields)
		}
	})

	t.Run("contentに数値は拒否", func(t *testing.T) {
		_, fields, err := DecodeTodoUpdate(strings.NewReader(`{"content":42}`))
		if err != nil {
			t.Fatal(err)
		}
		if fields["content"] == "" {
			t.Errorf("non-string content should fail validation, got %v", fields)
		}
	})

	t.Run("不正なJSONはエラー", func(t *testing.T) {
		_, _, err := DecodeTodoUpdate(strings.NewReader(`not json`))
		if !errors.Is(err, ErrMalformedJSON) {
			t.Fatalf("expected ErrMalformedJSON, got %v", err)
		}
	})
}

func TestDecodeSignUp(t *testing.T) {
	t.Run("正常なリクエスト", func(t *testing.T) {
		input, fields, err := DecodeSignUp(strings.NewReader(
			`{"email":"ada@example.com","password":"password123","name":"Ada Lovelace"}`))
		if err != nil || fields != nil {
			t.Fatalf("unexpected failure: err=%v fields=%v", err, fields)
		}
		if input.Email != "ada@example.com" || input.Name != "Ada Lovelace" {
			t.Errorf("got %+v", input)
		}
	})

	t.Run("全フィールド不正なら全エラーを返す", func(t *testing.T) {
		_, fields, err := DecodeSignUp(strings.NewReader(`{"email":"bad","password":"x","name":""}`))
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range []string{"email", "password", "name"} {
			if fields[f] == "" {
				t.Errorf("expected error for %q, got %v", f, fields)
			}
		}
	})
}

func TestDecodeSignIn(t *testing.T) {
	t.Run("正常なリクエスト", func(t *testing.T) {
		input, fields, err := DecodeSignIn(strings.NewReader(
			`{"email":"ada@example.com","password":"password123"}`))
		if err != nil || fields != nil {
			t.Fatalf("unexpected failure: err=%v fields=%v", err, fields)
		}
		if input.Email != "ada@example.com" {
			t.Errorf("email = %q", input.Email)
		}
	})

	t.Run("パスワード欠如は拒否", func(t *testing.T) {
		_, fields, err := DecodeSignIn(strings.NewReader(`{"email":"ada@example.com"}`))
		if err != nil {
			t.Fatal(err)
		}
		if fields["password"] == "" {
			t.Errorf("missing password should fail, got %v", fields)
		}
	})
}

func strPtr(s string) *string { return &s }
