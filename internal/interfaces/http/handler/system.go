package handler

import (
	"runtime"
	"time"

	infra "github.com/erp/printagent/internal/infrastructure/printing"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
}

// VersionResponse describes the running agent
type VersionResponse struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	GoVersion      string `json:"goVersion"`
	Platform       string `json:"platform"`
	NativePrinting bool   `json:"nativePrinting"`
	Uptime         string `json:"uptime"`
}

// GetVersion returns the configured application version
//
// GET /system/version
func (h *SystemHandler) GetVersion(c *gin.Context) {
	h.Success(c, VersionResponse{
		Name:           h.name,
		Version:        h.version,
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		NativePrinting: infra.NativePrintingSupported(),
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping reports that the agent is up
//
// GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
