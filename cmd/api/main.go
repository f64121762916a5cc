package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/YaduEnc/Deehadi/internal/delivery/http"
	"github.com/YaduEnc/Deehadi/internal/infrastructure/payment"
	"github.com/YaduEnc/Deehadi/internal/infrastructure/storage"
	"github.com/YaduEnc/Deehadi/internal/pkg/config"
	"github.com/YaduEnc/Deehadi/internal/pkg/database"
	"github.com/YaduEnc/Deehadi/internal/pkg/jwt"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/pkg/redis"
	"github.com/YaduEnc/Deehadi/internal/repository/cached"
	"github.com/YaduEnc/Deehadi/internal/repository/postgres"
	"github.com/YaduEnc/Deehadi/internal/usecase/auth"
	"github.com/YaduEnc/Deehadi/internal/usecase/booking"
	"github.com/YaduEnc/Deehadi/internal/usecase/catalog"
	"github.com/YaduEnc/Deehadi/internal/usecase/fleet"
	"github.com/YaduEnc/Deehadi/internal/usecase/kyc"
	"github.com/YaduEnc/Deehadi/internal/usecase/profile"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting Deehadi API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Подключение к Redis (кеш каталога)
	// =========================================================================

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redisClient.Close()

	log.Info("Connected to Redis", map[string]interface{}{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	pricingRepo := postgres.NewPricingPlanRepository(db)
	mediaRepo := postgres.NewCarMediaRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	kycRepo := postgres.NewKYCRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	// Каталог читается часто - оборачиваем репозиторий автомобилей кешем
	carRepo := cached.NewCarRepository(postgres.NewCarRepository(db), redisClient)

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание внешних клиентов: платежи и blob-хранилище
	// =========================================================================

	var paymentProvider payment.Provider
	if cfg.Payment.Mode == "http" {
		paymentProvider = payment.NewHTTPProvider(cfg.Payment.ServiceURL, cfg.Payment.APIKey, cfg.Payment.Timeout)
		if err := paymentProvider.Health(ctx); err != nil {
			log.Warn("Payment service is not available", map[string]interface{}{
				"error": err.Error(),
				"url":   cfg.Payment.ServiceURL,
			})
			log.Warn("Bookings will fail until payment service is running")
		}
	} else {
		paymentProvider = payment.NewSimulatedProvider(cfg.Payment.SimulatedDelay)
		log.Info("Using simulated payment provider", map[string]interface{}{
			"delay": cfg.Payment.SimulatedDelay.String(),
		})
	}

	storageClient := storage.NewHTTPClient(cfg.Storage.ServiceURL, cfg.Storage.APIKey, cfg.Storage.Timeout)
	if err := storageClient.Health(ctx); err != nil {
		log.Warn("Storage service is not available", map[string]interface{}{
			"error": err.Error(),
			"url":   cfg.Storage.ServiceURL,
		})
		log.Warn("KYC and car image uploads will fail until storage is running")
	}

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, cfg.JWT.RefreshExpiry, log)
	profileService := profile.NewService(userRepo, log)
	kycService := kyc.NewService(kycRepo, storageClient, cfg.Storage.KYCBucket, log)
	fleetService := fleet.NewService(carRepo, storageClient, cfg.Storage.CarsBucket, log)
	catalogService := catalog.NewService(carRepo, pricingRepo, mediaRepo, userRepo, log)
	bookingService := booking.NewService(bookingRepo, carRepo, pricingRepo, mediaRepo, kycService, paymentProvider, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	profileHandler := deliveryHTTP.NewProfileHandler(profileService, log)
	kycHandler := deliveryHTTP.NewKYCHandler(kycService, log)
	carHandler := deliveryHTTP.NewCarHandler(catalogService, log)
	fleetHandler := deliveryHTTP.NewFleetHandler(fleetService, log)
	bookingHandler := deliveryHTTP.NewBookingHandler(bookingService, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		authHandler,
		profileHandler,
		kycHandler,
		carHandler,
		fleetHandler,
		bookingHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	// Канал для получения сигналов операционной системы
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Блокируемся до получения сигнала или ошибки сервера
	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Даем серверу 30 секунд на graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			// Принудительное закрытие
			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
