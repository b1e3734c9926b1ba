package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// instrumentedWriter はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type instrumentedWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (iw *instrumentedWriter) WriteHeader(code int) {
	if !iw.written {
		iw.statusCode = code
		iw.written = true
	}
	iw.ResponseWriter.WriteHeader(code)
}

func (iw *instrumentedWriter) Write(b []byte) (int, error) {
	if !iw.written {
		iw.statusCode = http.StatusOK
		iw.written = true
	}
	return iw.ResponseWriter.Write(b)
}

// NewMiddleware はリクエストごとにメトリクスを記録するミドルウェアを返す。
// ルートラベルにはchiのルートパターン（例: /api/v1/todos/{id}）を使用し、
// パスパラメータによるラベル爆発を防ぐ。
func NewMiddleware(collector MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			collector.IncInFlight()
			defer collector.DecInFlight()

			iw := &instrumentedWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(iw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			collector.RecordRequest(r.Method, route, iw.statusCode)
			collector.RecordLatency(r.Method, route, time.Since(start))
		})
	}
}
