package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-backend/internal/analytics"
	"restaurant-backend/internal/catalog"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/config"
	"restaurant-backend/internal/database"
	"restaurant-backend/internal/handlers"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/middleware"
	"restaurant-backend/internal/orders"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.Load()

	zl, err := logger.New(config.AppEnv.LogLevel, config.AppEnv.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	clk := clock.System()
	ctx := context.Background()

	var (
		menuRepo  catalog.Repository
		orderRepo orders.Repository
		mongoDB   *database.Mongo
		pinger    handlers.Pinger
	)

	if config.AppEnv.InMemory() {
		zl.Warn("using in-memory storage; data is lost on restart")
		menuRepo = catalog.NewMemoryRepository()
		orderRepo = orders.NewMemoryRepository()
	} else {
		mongoDB, err = database.Connect(ctx, config.AppEnv.MongoURI, config.AppEnv.DBName, zl)
		if err != nil {
			zl.Fatal("database unavailable", zap.Error(err))
		}
		if err := database.EnsureMenuItemIndexes(ctx, mongoDB.DB, zl); err != nil {
			zl.Warn("menu item index warning", zap.Error(err))
		}
		if err := database.EnsureOrderIndexes(ctx, mongoDB.DB, zl); err != nil {
			zl.Warn("order index warning", zap.Error(err))
		}
		menuRepo = catalog.NewMongoRepository(mongoDB.DB)
		orderRepo = orders.NewMongoRepository(mongoDB.DB)
		pinger = mongoDB
	}

	if config.AppEnv.IsDevelopment() {
		if err := database.Seed(ctx, menuRepo, orderRepo, clk, zl); err != nil {
			zl.Warn("seeding failed", zap.Error(err))
		}
	}

	menu := catalog.NewStore(menuRepo, clk, zl)
	deps := handlers.Dependencies{
		Catalog:   menu,
		Orders:    orders.NewStore(orderRepo, menu, clk, zl),
		Analytics: analytics.NewAggregator(orderRepo, menu, clk, config.AppEnv.Location, zl),
		Database:  pinger,
		Auth: handlers.AuthConfig{
			Secret:       config.AppEnv.JWTSecret,
			PasswordHash: config.AppEnv.StaffPasswordHash,
			TokenTTL:     config.AppEnv.AccessTokenTTL,
			Clock:        clk,
		},
		Clock:          clk,
		Location:       config.AppEnv.Location,
		RequestTimeout: config.AppEnv.RequestTimeout,
	}
	if !config.AppEnv.AuthEnabled() {
		zl.Warn("JWT_SECRET is not set; write routes are open")
	}

	if !config.AppEnv.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(zl), middleware.CORS(config.AppEnv.CORSOrigin))
	handlers.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + config.AppEnv.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr), zap.String("environment", config.AppEnv.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	if mongoDB != nil {
		if err := mongoDB.Disconnect(); err != nil {
			zl.Error("disconnect failed", zap.Error(err))
		}
	}
}
