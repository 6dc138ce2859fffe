package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "user-role-admin/internal/transport/http/response"
)

// Recovered 兜底 500；配合 ginzap.CustomRecoveryWithZap 使用（日志与堆栈由 ginzap 输出）
func Recovered(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, resp.MsgInternal))
}
