package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"exercise_tracker/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/api/users/:_id/logs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
	})
	router.GET("/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
	})
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestCORSMiddleware_DefaultOrigin(t *testing.T) {
	router := newRouter(CORSMiddleware(""))

	w := serve(router, http.MethodGet, "/api/users/abc/logs")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	router := newRouter(CORSMiddleware("https://www.freecodecamp.org"))

	w := serve(router, http.MethodOptions, "/api/users/abc/logs")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://www.freecodecamp.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	logrus.SetLevel(logrus.InfoLevel)

	router := newRouter(LoggingMiddleware())

	tests := []struct {
		path  string
		level logrus.Level
	}{
		{"/api/users/abc/logs", logrus.InfoLevel},
		{"/bad", logrus.WarnLevel},
		{"/fail", logrus.ErrorLevel},
	}

	for _, tt := range tests {
		hook.Reset()
		serve(router, http.MethodGet, tt.path)

		entry := hook.LastEntry()
		require.NotNil(t, entry, tt.path)
		assert.Equal(t, tt.level, entry.Level, tt.path)
		assert.Equal(t, "http_request", entry.Message)
		assert.Equal(t, tt.path, entry.Data["path"])
	}
}

func TestPrometheusMiddleware_RecordsRoutePattern(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	router := newRouter(PrometheusMiddleware(metrics))

	serve(router, http.MethodGet, "/api/users/abc/logs")
	serve(router, http.MethodGet, "/api/users/def/logs")
	serve(router, http.MethodGet, "/nowhere")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/users/:_id/logs", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.HTTPRequestsInFlight))
}
