package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles system-level endpoints
type SystemHandler struct {
	BaseHandler
	appName   string
	env       string
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName, env string) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		env:       env,
		startedAt: time.Now(),
	}
}

// Ping handles GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Info handles GET /system/info
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"app":        h.appName,
		"env":        h.env,
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startedAt).String(),
	})
}
