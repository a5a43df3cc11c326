package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/abarman/water-health-watch/internal/aggregate"
	"github.com/abarman/water-health-watch/internal/alerting"
	"github.com/abarman/water-health-watch/internal/api"
	"github.com/abarman/water-health-watch/internal/config"
	"github.com/abarman/water-health-watch/internal/dashboard"
	"github.com/abarman/water-health-watch/internal/logging"
	"github.com/abarman/water-health-watch/internal/prediction"
	"github.com/abarman/water-health-watch/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Alert fan-out: engine -> dispatch pool -> broadcaster -> websocket feed
	broadcaster := alerting.NewBroadcaster()
	dispatcher := alerting.NewDispatcher(cfg.Worker.Count, cfg.Worker.BufferSize, broadcaster)
	dispatcher.Start(ctx)

	predictor := prediction.New(cfg.Prediction.URL)
	alertEngine := alerting.NewEngine(db, predictor, dispatcher)
	aggEngine := aggregate.NewEngine(db, db)
	composer := dashboard.NewComposer(aggEngine, alertEngine, dashboard.MockWeather{})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(db, alertEngine, composer, api.NewFeed(broadcaster), cfg.Sensor.StaleAfter)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Drain in-flight requests before stopping the dispatch pipeline they
	// submit to.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	dispatcher.Stop()
	broadcaster.Close() // Close all feeds gracefully

	slog.Info("shutdown complete")
}
