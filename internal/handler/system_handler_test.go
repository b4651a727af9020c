package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/cohort-api/internal/service"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSystemHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler(nil, map[string]Pinger{
		"store": pingFunc(func(context.Context) error { return nil }),
		"cache": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), `"store":"ok"`)
}

func TestSystemHandlerPrometheusDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/ready", nil).Code)

	srv.program(t)
	w := srv.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `path="/api/v1/programs"`)
	assert.Contains(t, w.Body.String(), "store_tx_duration_seconds")
}
