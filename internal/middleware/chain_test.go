package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/monotodo/internal/model"
)

func TestCORSMiddleware(t *testing.T) {
	mw := NewCORSMiddleware("http://localhost:5173")

	t.Run("通常リクエストにCORSヘッダーを付与する", func(t *testing.T) {
		handler := mw(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("origin = %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("credentials = %q", got)
		}
	})

	t.Run("OPTIONSプリフライトには204", func(t *testing.T) {
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be reached on preflight")
		}))
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/todos", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := NewSecurityHeadersMiddleware()(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	wantHeaders := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'",
	}
	for name, want := range wantHeaders {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("リクエストIDを生成してヘッダーとコンテキストに設定する", func(t *testing.T) {
		var ctxID string
		handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxID = RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		headerID := rec.Header().Get("X-Request-ID")
		if headerID == "" {
			t.Fatal("X-Request-ID header not set")
		}
		if ctxID != headerID {
			t.Errorf("context id %q != header id %q", ctxID, headerID)
		}
	})

	t.Run("クライアント指定のIDを引き継ぐ", func(t *testing.T) {
		handler := NewRequestIDMiddleware()(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-supplied")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "client-supplied" {
			t.Errorf("id = %q, want client-supplied", got)
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	t.Run("panicを500レスポンスに変換する", func(t *testing.T) {
		handler := NewRecoveryMiddleware(false)(panicking)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "boom") {
			t.Error("panic detail must not leak when details are hidden")
		}
	})

	t.Run("非本番環境ではpanic内容を含める", func(t *testing.T) {
		handler := NewRecoveryMiddleware(true)(panicking)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !strings.Contains(rec.Body.String(), "boom") {
			t.Errorf("body = %s, want panic detail", rec.Body.String())
		}
	})
}

func TestWriteErrorResponse(t *testing.T) {
	t.Run("detailsなしのエラー", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteErrorResponse(rec, http.StatusNotFound, model.NewTodoNotFoundError())

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Todo not found"}` {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("バリデーションエラーはdetailsを含む", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteErrorResponse(rec, http.StatusBadRequest, model.NewValidationError(map[string]string{
			"title": "title must not be empty",
		}))

		var body ErrorResponseBody
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Error != "Validation failed" {
			t.Errorf("error = %q", body.Error)
		}
		if body.Details["title"] == "" {
			t.Errorf("details = %v", body.Details)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := NewLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["msg"] != "http_request" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["status"] != float64(404) {
		t.Errorf("status = %v, want 404", entry["status"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for 4xx", entry["level"])
	}
	if entry["path"] != "/api/v1/todos/missing" {
		t.Errorf("path = %v", entry["path"])
	}
}
