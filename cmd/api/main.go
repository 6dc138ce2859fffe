package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"user-role-admin/internal/core/cache"
	"user-role-admin/internal/core/config"
	"user-role-admin/internal/core/database"
	"user-role-admin/internal/core/logger"
	"user-role-admin/internal/core/server"
	"user-role-admin/internal/domain"
	"user-role-admin/internal/repo"
	"user-role-admin/internal/service"
	"user-role-admin/internal/transport/http/handler"
	"user-role-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	rot := cfg.Log.Rotate
	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON,
		rot.Filename, rot.MaxSizeMB, rot.MaxBackups, rot.MaxAgeDays, rot.Compress)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 仓储：memory 不连数据库
	var (
		roleRepo domain.RoleRepository
		userRepo domain.UserRepository
	)
	if cfg.DB.Driver == "memory" {
		mr := repo.NewMemRoleRepo()
		roleRepo, userRepo = mr, repo.NewMemUserRepo(mr)
		log.Warn("using in-memory storage, data is lost on restart")
	} else {
		db := mustOpenDB(cfg, log)
		log.Info("database connected", zap.String("driver", cfg.DB.Driver))
		if cfg.DB.AutoMigrate {
			if err := repo.AutoMigrate(db); err != nil {
				log.Fatal("automigrate failed", zap.Error(err))
			}
			log.Info("automigrate done")
		}
		roleRepo, userRepo = repo.NewRoleRepo(db), repo.NewUserRepo(db)
	}

	roleSvc := service.NewRoleService(roleRepo, log)
	if c := openCache(cfg, log); c != nil {
		defer c.Close()
		roleSvc.WithCache(c, time.Duration(cfg.Redis.RoleTTLSec)*time.Second)
	}
	userSvc := service.NewUserService(userRepo, roleRepo, log)

	mode := gin.DebugMode
	if cfg.App.Env == "prod" {
		mode = gin.ReleaseMode
	}
	h := cfg.App.HTTP
	r := router.NewAPIEngine(log, router.Options{
		Name:            "User Role API Server",
		Version:         cfg.App.Version,
		Mode:            mode,
		CORSOrigins:     h.CORSOrigins,
		TrustedProxies:  h.TrustedProxies,
		PublicDir:       h.PublicDir,
		RateLimitRPS:    h.RateLimitRPS,
		RateLimitBurst:  h.RateLimitBurst,
		RateLimitPerIP:  h.RateLimitPerIP,
		MaxConcurrent:   h.MaxConcurrent,
		ConcurrencyWait: time.Duration(h.ConcurrencyWaitMs) * time.Millisecond,
		MaxBodyBytes:    int64(h.MaxBodyMB) << 20,
		RequestTimeout:  time.Duration(h.RequestTimeoutSec) * time.Second,
	},
		handler.NewRoleHandler(roleSvc, log),
		handler.NewUserHandler(userSvc, log),
	)

	// HTTP Server
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("user role api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/api/health"),
		zap.String("api", baseURL+"/api"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user role api start FAILED", zap.Error(err))
		}
	}()
	log.Info("user role api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("user role api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	sqlLog, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Log:                l,
		SQLWriter:          sqlLog,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// openCache 未配置地址返回 nil；连不上只告警，不阻塞启动
func openCache(cfg *config.Config, l *zap.Logger) *cache.Cache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, role cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return c
}
