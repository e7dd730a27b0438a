package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(buf *bytes.Buffer, origins []string) *gin.Engine {
	log := zerolog.New(buf)
	r := gin.New()
	r.Use(RequestID(), Logger(log), Recovery(), CORS(origins))
	r.GET("/ok", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" {
		t.Fatal("request id not generated")
	}
	if !strings.Contains(buf.String(), generated) {
		t.Errorf("log lines do not carry the request id: %s", buf.String())
	}
	if strings.Count(buf.String(), generated) != 2 {
		t.Errorf("handler log missing request id: %s", buf.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc" {
		t.Errorf("request id = %q, want abc", got)
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}

func TestCORS(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf, []string{"https://hot.example"})

	tests := []struct {
		origin string
		want   string
	}{
		{"https://hot.example", "https://hot.example"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: allow = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
