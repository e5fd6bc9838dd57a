package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "leadqueue_backend/internal/http"
	"leadqueue_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type testConfig struct{ allowAll bool }

func (testConfig) GetHTTPAddr() string        { return ":0" }
func (c testConfig) GetCORSAllowAll() bool    { return c.allowAll }
func (testConfig) GetCORSOrigins() []string   { return []string{"http://localhost:5173"} }
func (c testConfig) GetCORSAllowCreds() bool  { return !c.allowAll }
func (testConfig) GetJWTAccessSecret() string { return "secret" }

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	ctx.V1.GET("/open", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func newTestEngine(health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Nop(),
		Health:  health,
		Modules: []apphttp.Module{echoModule{}},
	})
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ok := newTestEngine(pingFunc(func(context.Context) error { return nil }))
	if rec := serve(ok, httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	down := newTestEngine(pingFunc(func(context.Context) error { return errors.New("down") }))
	if rec := serve(down, httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	engine := newTestEngine(nil)

	if rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/open", nil)); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine := newTestEngine(nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/open", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(engine, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestCORSConfigAllowAll(t *testing.T) {
	cfg := corsConfig(testConfig{allowAll: true})
	if !cfg.AllowAllOrigins || cfg.AllowCredentials || len(cfg.AllowOrigins) != 0 {
		t.Fatalf("unexpected cors config %+v", cfg)
	}
}
