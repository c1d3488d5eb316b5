package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemEngine() *gin.Engine {
	engine := gin.New()
	NewSystemHandler().RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	engine := newSystemEngine()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Name      string `json:"name"`
			GoVersion string `json:"go_version"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "TradeLink Backend API", body.Data.Name)
	assert.NotEmpty(t, body.Data.GoVersion)
}

func TestSystemHandler_Ping(t *testing.T) {
	engine := newSystemEngine()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
