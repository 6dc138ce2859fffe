package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-role-admin/internal/core/server"
	"user-role-admin/internal/transport/http/handler"
	mdw "user-role-admin/internal/transport/http/middleware"
)

type Options struct {
	Name        string
	Version     string
	Mode        string
	CORSOrigins []string
	// 为空时不信任任何代理的 X-Forwarded-For
	TrustedProxies []string
	PublicDir      string // 静态客户端目录，为空不提供

	// 以下为 0 表示不启用对应中间件
	RateLimitRPS    float64
	RateLimitBurst  int
	RateLimitPerIP  bool
	MaxConcurrent   int64
	ConcurrencyWait time.Duration
	MaxBodyBytes    int64
	RequestTimeout  time.Duration
}

func NewAPIEngine(l *zap.Logger, o Options, mods ...APIModule) *gin.Engine {
	r := server.NewRouter(l, server.Options{
		Mode:           o.Mode,
		CORSOrigins:    o.CORSOrigins,
		Recovery:       mdw.Recovered,
		TrustedProxies: o.TrustedProxies,
	})

	// 中间件
	r.Use(mdw.RequestID())
	if o.RateLimitRPS > 0 {
		burst := o.RateLimitBurst
		if burst <= 0 {
			burst = int(o.RateLimitRPS)
		}
		if o.RateLimitPerIP {
			r.Use(mdw.RateLimitPerIP(rate.Limit(o.RateLimitRPS), burst))
		} else {
			r.Use(mdw.RateLimit(rate.Limit(o.RateLimitRPS), burst))
		}
	}
	if o.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(o.MaxConcurrent, o.ConcurrencyWait))
	}
	if o.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(o.MaxBodyBytes))
	}
	if o.RequestTimeout > 0 {
		r.Use(mdw.Timeout(o.RequestTimeout, "/metrics"))
	}
	r.Use(mdw.Metrics(), mdw.AccessLog(l))

	sys := handler.NewSystemHandler(o.Name, o.Version)
	r.GET("/metrics", mdw.MetricsHandler())

	api := r.Group("/api")
	Mount(api, append([]APIModule{sys}, mods...)...)

	st := newStatic(o.PublicDir)
	r.GET("/", st.index(sys.Info))
	r.NoRoute(st.fallback)

	return r
}
