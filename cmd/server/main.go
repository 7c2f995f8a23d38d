package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"identity-service/internal/audit"
	"identity-service/internal/auth"
	"identity-service/internal/config"
	apphttp "identity-service/internal/http"
	"identity-service/internal/repository/mongodb"
	"identity-service/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatalf("connect mongo: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}()

	userStore := mongodb.NewUserStore(db)
	if err := userStore.Init(ctx); err != nil {
		logger.Fatalf("init user store: %v", err)
	}

	auditLog, err := audit.OpenLog(cfg.Audit.Path)
	if err != nil {
		logger.Fatalf("open audit log: %v", err)
	}
	defer auditLog.Close()
	if err := auditLog.Init(ctx); err != nil {
		logger.Fatalf("init audit log: %v", err)
	}

	auditQueue := audit.NewQueue(cfg.Audit.QueueSize, userStore, auditLog, logger)
	auditQueue.Start(ctx)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	identity := service.NewIdentityService(userStore, tokens, auditQueue)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(identity, tokens, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	auditQueue.Wait()

	logger.Info("bye")
}
