package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/travel_safety_alerts/internal/config"
	"github.com/shenikar/travel_safety_alerts/internal/dispatch"
	v1 "github.com/shenikar/travel_safety_alerts/internal/handler/http/v1"
	"github.com/shenikar/travel_safety_alerts/internal/notifier"
	"github.com/shenikar/travel_safety_alerts/internal/repository"
	"github.com/shenikar/travel_safety_alerts/internal/scheduler"
	"github.com/shenikar/travel_safety_alerts/internal/service"
	"github.com/shenikar/travel_safety_alerts/pkg/logger"
	"github.com/shenikar/travel_safety_alerts/pkg/postgres"
	redisclient "github.com/shenikar/travel_safety_alerts/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/travel_safety_alerts/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Travel Safety Alerts API
// @version 1.0
// @description This is a Travel Safety Alerts API server.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool)
	userRepo := repository.NewUserRepository(dbpool)
	prefRepo := repository.NewPreferenceRepository(dbpool)
	alertRepo := repository.NewAlertRepository(dbpool)

	// Инициализация нотификаторов
	whatsappNotifier := notifier.NewWhatsAppNotifier(cfg, log)
	emailNotifier := notifier.NewEmailNotifier(cfg, log)

	// Инициализация издателя заданий рассылки
	publisher := dispatch.NewRedisPublisher(redisClient)

	// Инициализация сервисов
	dispatchService := service.NewAlertDispatchService(incidentRepo, prefRepo, alertRepo, whatsappNotifier, emailNotifier, log, cfg)
	incidentService := service.NewIncidentService(incidentRepo, publisher, log)
	userService := service.NewUserService(userRepo, prefRepo, log)
	maintenanceService := service.NewMaintenanceService(alertRepo, incidentRepo, log, cfg)

	// Запуск воркера рассылки оповещений
	dispatchWorker := dispatch.NewWorker(redisClient, dispatchService, log)
	dispatchWorker.Start(ctx)

	// Запуск планировщика регламентных джоб
	maintenanceScheduler := scheduler.NewScheduler(maintenanceService, log)
	maintenanceScheduler.Start(ctx)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, userService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(cors.Default())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

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
