package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"user-role-admin/internal/domain"
)

type SystemHandler struct {
	Name    string
	Version string
	now     func() time.Time
}

func NewSystemHandler(name, version string) *SystemHandler {
	return &SystemHandler{Name: name, Version: version, now: time.Now}
}

func (h *SystemHandler) Priority() int { return 0 }

func (h *SystemHandler) MountAPI(api *gin.RouterGroup) {
	api.GET("/health", h.Health)
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Server is running",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Info 没有静态首页时的根路径说明
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": h.Name,
		"version": h.Version,
		"endpoints": gin.H{
			"users":  "/api/users",
			"roles":  "/api/roles",
			"health": "/api/health",
		},
		// 列表分页：limit 超过上限按上限截断
		"pagination": gin.H{
			"defaultLimit": domain.DefaultLimit,
			"maxLimit":     domain.MaxLimit,
		},
	})
}
