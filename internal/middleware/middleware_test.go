package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterRefill(t *testing.T) {
	clock := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "buckets are per key")

	clock = clock.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))

	clock = clock.Add(10 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.visitors)
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name   string
		op     *model.Operator
		perm   model.Permission
		status int
	}{
		{"no operator", nil, model.PermissionDashboardRead, http.StatusUnauthorized},
		{"editor denied dashboard", &model.Operator{Role: model.RoleEditor}, model.PermissionDashboardRead, http.StatusForbidden},
		{"admin reads dashboard", &model.Operator{Role: model.RoleAdmin}, model.PermissionDashboardRead, http.StatusOK},
		{"admin denied settings write", &model.Operator{Role: model.RoleAdmin}, model.PermissionSettingsWrite, http.StatusForbidden},
		{"master writes settings", &model.Operator{Role: model.RoleMaster}, model.PermissionSettingsWrite, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				if tt.op != nil {
					c.Set(ContextKeyOperator, tt.op)
				}
				c.Next()
			}, RequirePermission(tt.perm), func(c *gin.Context) { c.Status(http.StatusOK) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	large := strings.Repeat("Lehrveranstaltung ", 200)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, large) })

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/large")
	require.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(rec.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, large, string(body))

	rec = get("/small")
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", rec.Body.String())

	rec = get("/metrics")
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}
