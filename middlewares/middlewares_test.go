package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		c.JSON(http.StatusOK, gin.H{"role": role})
	})
	r.GET("/", handlers...)
	return r
}

func get(r http.Handler, header http.Header, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	valid, err := tokens.Generate(7, models.RoleHost)
	require.NoError(t, err)
	foreign, err := utils.NewTokenIssuer("other-secret", time.Hour).Generate(7, models.RoleHost)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"foreign token", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	r := newEngine(AuthMiddleware(tokens))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			w := get(r, header, "/")
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"role":"host"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	host, err := tokens.Generate(1, models.RoleHost)
	require.NoError(t, err)
	manager, err := tokens.Generate(2, models.RoleManager)
	require.NoError(t, err)

	r := newEngine(AuthMiddleware(tokens), RequireRole(models.RoleManager))

	w := get(r, http.Header{"Authorization": {"Bearer " + host}}, "/")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, http.Header{"Authorization": {"Bearer " + manager}}, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(newEngine(RequireRole(models.RoleManager)), nil, "/")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	valid, err := tokens.Generate(3, models.RoleHost)
	require.NoError(t, err)

	r := newEngine(WebSocketAuthMiddleware(tokens))
	assert.Equal(t, http.StatusUnauthorized, get(r, nil, "/").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, nil, "/?token=garbage").Code)
	assert.Equal(t, http.StatusOK, get(r, nil, "/?token="+valid).Code)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2030, time.June, 3, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, rl.allow("10.0.0.1"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	r := newEngine(NewRateLimiter(1, time.Minute).RateLimit())

	assert.Equal(t, http.StatusOK, get(r, nil, "/").Code)
	w := get(r, nil, "/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestStrictRateLimiter_PerIP(t *testing.T) {
	r := newEngine(NewStrictRateLimiter(time.Hour, 2).RateLimit())

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.2"))
}

func TestRateLimiter_ForgetsIdleIPs(t *testing.T) {
	now := time.Date(2030, time.June, 3, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		assert.True(t, rl.allow(fmt.Sprintf("10.0.1.%d", i)))
	}
	assert.Len(t, rl.ips, 100)

	now = now.Add(2 * time.Second)
	assert.True(t, rl.allow("10.0.0.1"))
	assert.Len(t, rl.ips, 1)
}

func TestStrictRateLimiter_ForgetsRefilledBuckets(t *testing.T) {
	now := time.Date(2030, time.June, 3, 12, 0, 0, 0, time.UTC)
	s := NewStrictRateLimiter(time.Minute, 2)
	s.now = func() time.Time { return now }

	assert.True(t, s.allow("10.0.0.1"))
	assert.True(t, s.allow("10.0.0.1"))
	assert.False(t, s.allow("10.0.0.1"))
	assert.True(t, s.allow("10.0.0.2"))

	// Still limited after one minute: only one token is back.
	now = now.Add(time.Minute)
	assert.True(t, s.allow("10.0.0.1"))
	assert.False(t, s.allow("10.0.0.1"))
	assert.Len(t, s.visitors, 2)

	now = now.Add(5 * time.Minute)
	assert.True(t, s.allow("10.0.0.3"))
	assert.Len(t, s.visitors, 1)
}

func TestCORSMiddlewares(t *testing.T) {
	r := newEngine(CORSMiddlewares("http://localhost:5002"))
	r.OPTIONS("/", CORSMiddlewares("http://localhost:5002"))

	w := get(r, nil, "/")
	assert.Equal(t, "http://localhost:5002", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	pre := httptest.NewRecorder()
	r.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusNoContent, pre.Code)
}

func TestSecurityHeaders(t *testing.T) {
	w := get(newEngine(SecurityHeaders()), nil, "/")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
