package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/quote", nil)
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByUserOrIP(c); key != "1.2.3.4" {
		t.Fatalf("anonymous key want 1.2.3.4 got %s", key)
	}
	c.Set(userIDKey, uint(9))
	if key := KeyByUserOrIP(c); key != "u9" {
		t.Fatalf("user key want u9 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestParseRateLimitResult(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		count int64
		ttl   int64
		ok    bool
	}{
		{name: "counting", input: []interface{}{int64(3), int64(40)}, count: 3, ttl: 40, ok: true},
		{name: "blocked", input: []interface{}{int64(-1), int64(90)}, count: -1, ttl: 90, ok: true},
		{name: "short", input: []interface{}{int64(1)}, ok: false},
		{name: "wrong type", input: "bad", ok: false},
		{name: "bad count", input: []interface{}{"x", int64(1)}, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			count, ttl, ok := parseRateLimitResult(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if ok && (count != tc.count || ttl != tc.ttl) {
				t.Fatalf("want (%d,%d) got (%d,%d)", tc.count, tc.ttl, count, ttl)
			}
		})
	}
}
