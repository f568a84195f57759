package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/emergency_reporting_system/internal/config"
	"github.com/shenikar/emergency_reporting_system/internal/events"
	v1 "github.com/shenikar/emergency_reporting_system/internal/handler/http/v1"
	"github.com/shenikar/emergency_reporting_system/internal/metrics"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/shenikar/emergency_reporting_system/internal/repository"
	"github.com/shenikar/emergency_reporting_system/internal/service"
	"github.com/shenikar/emergency_reporting_system/pkg/logger"
	redisclient "github.com/shenikar/emergency_reporting_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/emergency_reporting_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Emergency Reporting System API
// @version 1.0
// @description Emergency incident reporting, triage and response API.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Издатель событий: Redis при EVENTS_ENABLED, иначе события отбрасываются
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.EventsEnabled {
		redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
		publisher = events.NewRedisPublisher(redisClient)
	}

	// Инициализация репозиториев
	identityRepo := repository.NewIdentityRepository(models.SeedIdentities())
	incidentRepo := repository.NewIncidentRepository()

	// Инициализация сервисов
	sessionService := service.NewSessionService(identityRepo, log, cfg)
	incidentService := service.NewIncidentService(incidentRepo, log, cfg, publisher)

	// Инициализация хэндлеров
	m := metrics.New()
	handler := v1.NewHandler(sessionService, incidentService, log, cfg, m)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(m.Middleware())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.WithFields(logrus.Fields{
		"port":           cfg.HTTPPort,
		"events_enabled": cfg.EventsEnabled,
	}).Info("HTTP server started")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
