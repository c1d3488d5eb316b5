package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradelink/backend/internal/interfaces/http/router"
)

// SystemHandler serves runtime information endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startTime: time.Now()}
}

// SystemInfoResponse describes the running service
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo godoc
// @Summary Get system information
// @Description Returns service name, version and uptime
// @Tags system
// @Produce json
// @Success 200 {object} APIResponse[SystemInfoResponse]
// @Router /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "TradeLink Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ping godoc
// @Summary Ping
// @Description Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} APIResponse[string]
// @Router /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, "pong")
}

// RegisterRoutes registers the system endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := router.NewDomainGroup(rg, "system")
	group.GET("/info", h.GetSystemInfo)
	group.GET("/ping", h.Ping)
}
