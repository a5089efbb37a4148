package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/plansearch/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecovery_AnswersWithEnvelope(t *testing.T) {
	engine := gin.New()
	engine.Use(Logger(logger.NewNopLogger()), Recovery())
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"data":null,"error":{"code":"internal_error","message":"Internal server error occurred"}}`, w.Body.String())
}

func TestLogger_PassesThrough(t *testing.T) {
	engine := gin.New()
	engine.Use(Logger(logger.NewNopLogger()))
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
