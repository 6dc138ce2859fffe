package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-role-admin/internal/core/config"
	"user-role-admin/internal/core/database"
	"user-role-admin/internal/core/logger"
	"user-role-admin/internal/domain"
	"user-role-admin/internal/repo"
	"user-role-admin/internal/seed"
	"user-role-admin/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if cfg.DB.Driver == "memory" {
		log.Fatal("seed needs a real database, db.driver is memory")
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
		Log:                log,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	// 清空旧数据（物理删除；先删用户）
	all := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := all.Delete(&domain.User{}).Error; err != nil {
		log.Fatal("clear users", zap.Error(err))
	}
	if err := all.Delete(&domain.Role{}).Error; err != nil {
		log.Fatal("clear roles", zap.Error(err))
	}
	log.Info("cleared existing data")

	res, err := seed.Run(context.Background(), repo.NewRoleRepo(db), repo.NewUserRepo(db), utils.HashPassword)
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("database seeded successfully")

	for _, r := range res.Roles {
		log.Info("role", zap.String("id", r.ID), zap.String("name", r.Name), zap.String("description", r.Description))
	}
	for _, u := range res.Users {
		role := ""
		if u.Role != nil {
			role = u.Role.Name
		}
		log.Info("user",
			zap.String("username", u.Username),
			zap.String("email", u.Email),
			zap.String("fullName", u.FullName),
			zap.Bool("status", u.Status),
			zap.String("role", role),
		)
	}
}
