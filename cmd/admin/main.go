package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"geo-region-api/internal/app"
	"geo-region-api/internal/core/config"
	"geo-region-api/internal/core/logger"
	"geo-region-api/internal/core/server"
	"geo-region-api/pkg/utils"
)

func main() {
	// admin hash-password <password> prints a value for APP_ADMIN_PASSWORD_HASH.
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		h, err := utils.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(h)
		return
	}

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.JWT.Secret == "" || cfg.Admin.PasswordHash == "" {
		log.Fatal("admin requires jwt.secret and admin.password_hash")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("bootstrap", zap.Error(err))
	}
	defer a.Close()

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(
		addr, a.AdminEngine(),
		time.Duration(cfg.App.Admin.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.Admin.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.Admin.IdleTimeoutSec)*time.Second,
	)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("admin_v1", "http://"+addr+"/admin/v1"),
	)

	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("admin api stopped", zap.Error(err))
	}
}
