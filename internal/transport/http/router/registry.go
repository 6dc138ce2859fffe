package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule 挂到 /api 分组下的业务模块
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Mount 按优先级挂载模块；nil 模块跳过
func Mount(api *gin.RouterGroup, mods ...APIModule) {
	sorted := make([]APIModule, 0, len(mods))
	for _, m := range mods {
		if m != nil {
			sorted = append(sorted, m)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityOf(sorted[i]) < priorityOf(sorted[j])
	})
	for _, m := range sorted {
		m.MountAPI(api)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
