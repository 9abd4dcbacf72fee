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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/config"
	_ "mindconnect/docs"
	"mindconnect/internal/cache"
	"mindconnect/internal/domain"
	"mindconnect/internal/events"
	"mindconnect/internal/repository"
	"mindconnect/internal/service"
	"mindconnect/internal/storage"
	"mindconnect/internal/transport/rest"
	"mindconnect/internal/transport/websocket"
	"mindconnect/pkg/database"
	"mindconnect/pkg/logger"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// @title MindConnect API
// @version 1.0
// @description Каталог психологов: поиск, профили, заявки и аналитика

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(fmt.Sprintf("не удалось загрузить конфигурацию: %v", err))
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	repos, closeDB := openRepositories(ctx, cfg, log)
	defer closeDB()

	if err := repository.Seed(ctx, repos, log); err != nil {
		log.Fatal("Ошибка загрузки начальных данных", zap.Error(err))
	}

	directoryCache, closeRedis := openDirectoryCache(ctx, cfg, repos.Psychologist, log)
	defer closeRedis()

	var imageStorage storage.ImageStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal("Не удалось инициализировать S3 хранилище", zap.Error(err))
		}
		imageStorage = s3Storage
		log.Info("S3 хранилище успешно инициализировано", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("S3 хранилище не настроено, загрузка фотографий будет недоступна")
	}

	// The hub authenticates through the auth service, which is built below.
	var services *service.Services
	hub := websocket.NewEventHub(func(ctx context.Context, token string) (*domain.Identity, error) {
		return services.Auth.ParseToken(ctx, token)
	}, log)

	publisher := events.Fanout{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = append(publisher, events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic))
		log.Info("публикация событий в Kafka включена",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.EventsTopic),
		)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("ошибка при закрытии публикаторов событий", zap.Error(err))
		}
	}()

	services = service.NewServices(service.Deps{
		Repos:     repos,
		Directory: directoryCache,
		Publisher: publisher,
		Storage:   imageStorage,
		Logger:    log,
		Config:    cfg,
	})

	sessions := websocket.NewDirectorySessions(services.Directory, cfg.Directory, log)
	handler := rest.NewHandler(services, log, cfg, sessions, hub)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	log.Info("Сервер запущен",
		zap.String("addr", srv.Addr),
		zap.String("storage", cfg.Storage),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Выключение сервера...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Ошибка при остановке сервера", zap.Error(err))
	}

	log.Info("Сервер успешно остановлен")
}

func openRepositories(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repository.Repositories, func()) {
	if cfg.Storage != config.StoragePostgres {
		log.Warn("используется хранилище в памяти, данные будут потеряны при перезапуске")
		return repository.NewMemoryRepositories(), func() {}
	}

	db, err := database.NewPostgresDB(ctx, cfg.Postgres, log)
	if err != nil {
		log.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}

	log.Info("Запуск миграций базы данных")
	if err := database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log); err != nil {
		db.Close()
		log.Fatal("Ошибка при выполнении миграций", zap.Error(err))
	}
	log.Info("Миграции успешно выполнены")

	return repository.NewRepositories(db), db.Close
}

// openDirectoryCache falls back to reading the repository directly when
// Redis is not configured or not reachable.
func openDirectoryCache(ctx context.Context, cfg *config.Config, source cache.Source, log *zap.Logger) (*cache.Directory, func()) {
	if cfg.Redis.Addr == "" {
		return cache.NewDirectory(nil, source, 0, log), func() {}
	}

	rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis недоступен, кэш каталога отключен", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		rdb.Close()
		return cache.NewDirectory(nil, source, 0, log), func() {}
	}

	log.Info("кэш каталога в Redis включен",
		zap.String("addr", cfg.Redis.Addr),
		zap.Duration("ttl", cfg.Directory.CacheTTL),
	)
	return cache.NewDirectory(rdb, source, cfg.Directory.CacheTTL, log), func() {
		if err := rdb.Close(); err != nil {
			log.Warn("ошибка при закрытии Redis", zap.Error(err))
		}
	}
}
