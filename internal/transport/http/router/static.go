package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"

	resp "user-role-admin/internal/transport/http/response"
)

type static struct{ dir string }

func newStatic(dir string) static { return static{dir: dir} }

// has 只认普通文件；路径先 Clean 防止跳出目录
func (s static) has(name string) (string, bool) {
	if s.dir == "" {
		return "", false
	}
	full := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+name)))
	fi, err := os.Stat(full)
	if err != nil || fi.IsDir() {
		return "", false
	}
	return full, true
}

// index 有 index.html 就返回页面，否则走 info
func (s static) index(info gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if full, ok := s.has("index.html"); ok {
			c.File(full)
			return
		}
		info(c)
	}
}

// fallback 先尝试静态文件，再 404
func (s static) fallback(c *gin.Context) {
	if m := c.Request.Method; m == http.MethodGet || m == http.MethodHead {
		if full, ok := s.has(c.Request.URL.Path); ok {
			c.File(full)
			return
		}
	}
	c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, resp.MsgRouteNotFound))
}
