package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub/config"
	"staffhub/internal/model"
	"staffhub/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "middleware-test-secret-0123",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})
}

type stubChecker struct {
	revoked bool
	err     error
	seen    string
}

func (s *stubChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	s.seen = jti
	return s.revoked, s.err
}

type stubLimiter struct {
	allowed bool
	err     error
	key     string
}

func (s *stubLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	s.key = key
	return s.allowed, s.err
}

// authEngine 受保护路由回显中间件注入的上下文
func authEngine(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, checker), func(c *gin.Context) {
		_, hasExp := c.Get("token_exp")
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
			"jti":     c.GetString("token_jti"),
			"has_exp": hasExp,
		})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_AccessToken(t *testing.T) {
	mgr := testJWTManager()
	token, _ := mgr.GenerateAccessToken("u1", "engineer")
	checker := &stubChecker{}

	w := get(authEngine(mgr, checker), "/me", token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if checker.seen == "" {
		t.Error("expected blacklist lookup by jti")
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	mgr := testJWTManager()
	access, _ := mgr.GenerateAccessToken("u1", "engineer")
	refresh, _ := mgr.GenerateRefreshToken("u1", "engineer", false)

	tests := []struct {
		name    string
		header  string
		checker TokenChecker
	}{
		{"缺少认证头", "", nil},
		{"格式错误", "Token " + access, nil},
		{"Refresh Token 不能访问接口", "Bearer " + refresh, nil},
		{"签名无效", "Bearer " + access + "x", nil},
		{"已吊销", "Bearer " + access, &stubChecker{revoked: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authEngine(mgr, tt.checker).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestJWTAuth_BlacklistErrorFailsOpen(t *testing.T) {
	mgr := testJWTManager()
	token, _ := mgr.GenerateAccessToken("u1", "engineer")

	w := get(authEngine(mgr, &stubChecker{err: errors.New("redis down")}), "/me", token)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 when blacklist is unreachable, got %d", w.Code)
	}
}

// ── RoleAuth ──

func TestRoleAuth(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"manager", http.StatusOK},
		{"engineer", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r := gin.New()
			r.GET("/staff", func(c *gin.Context) {
				if tt.role != "" {
					c.Set("role", tt.role)
				}
				c.Next()
			}, RoleAuth(model.RoleManager, model.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := get(r, "/staff", "")
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter RateLimiter
		want    int
	}{
		{"未配置放行", nil, http.StatusOK},
		{"未超限", &stubLimiter{allowed: true}, http.StatusOK},
		{"超限", &stubLimiter{allowed: false}, http.StatusTooManyRequests},
		{"Redis 出错降级放行", &stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/login", RateLimit(tt.limiter, 5, time.Minute), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := get(r, "/login", "")
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRateLimit_KeyIncludesRoute(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	r := gin.New()
	r.GET("/login", RateLimit(limiter, 5, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	get(r, "/login", "")
	if limiter.key != "192.0.2.1:/login" {
		t.Errorf("unexpected key %q", limiter.key)
	}
}

// ── RequestID / CORS / BodyLimit ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := get(r, "/", "")
	if id := w.Header().Get("X-Request-ID"); id == "" || id != w.Body.String() {
		t.Errorf("expected generated request id, header=%q body=%q", id, w.Body.String())
	}

	tests := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"gateway id", "gw-7f3a:01.2_b", true},
		{"newline", "abc\nforged=1", false},
		{"space", "a b", false},
		{"too long", strings.Repeat("a", requestIDMaxLen+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("X-Request-ID", tt.inbound)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if tt.keep && got != tt.inbound {
				t.Errorf("expected inbound id kept, got %q", got)
			}
			if !tt.keep && (got == tt.inbound || got == "") {
				t.Errorf("expected regenerated id, got %q", got)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("OPTIONS", "/", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("http://localhost:5173")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("expected allowed origin to be echoed")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected allow-methods on preflight")
	}

	if w := preflight("http://evil.example"); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unknown origin preflight, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition") {
		t.Error("expected Content-Disposition to be exposed")
	}
	if w.Header().Get("Vary") != "Origin" {
		t.Errorf("expected Vary: Origin, got %q", w.Header().Get("Vary"))
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected unknown origin to be served without CORS headers")
	}

	// 非浏览器的 OPTIONS 交给路由处理
	req = httptest.NewRequest("OPTIONS", "/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code == http.StatusNoContent {
		t.Error("expected plain OPTIONS to bypass preflight handling")
	}
}

func TestBodyLimit_DeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("POST", "/", nil)
	req.ContentLength = 1024
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
