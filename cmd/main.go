package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/servicehub/booking-engine/internal/api/handlers/create_booking"
	createReviewHandler "github.com/servicehub/booking-engine/internal/api/handlers/create_review"
	getAvailableSlotsHandler "github.com/servicehub/booking-engine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/servicehub/booking-engine/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/servicehub/booking-engine/internal/api/handlers/get_client_bookings"
	getProviderBookingsHandler "github.com/servicehub/booking-engine/internal/api/handlers/get_provider_bookings"
	getServiceHandler "github.com/servicehub/booking-engine/internal/api/handlers/get_service"
	getServiceReviewsHandler "github.com/servicehub/booking-engine/internal/api/handlers/get_service_reviews"
	getSlotPolicyHandler "github.com/servicehub/booking-engine/internal/api/handlers/get_slot_policy"
	searchServicesHandler "github.com/servicehub/booking-engine/internal/api/handlers/search_services"
	transitionBookingHandler "github.com/servicehub/booking-engine/internal/api/handlers/transition_booking"
	updateSlotPolicyHandler "github.com/servicehub/booking-engine/internal/api/handlers/update_slot_policy"
	"github.com/servicehub/booking-engine/internal/api/middleware"
	"github.com/servicehub/booking-engine/internal/app"
	"github.com/servicehub/booking-engine/internal/config"
	"github.com/servicehub/booking-engine/internal/infra/cache/availability"
	bookingRepo "github.com/servicehub/booking-engine/internal/infra/storage/booking"
	policyRepo "github.com/servicehub/booking-engine/internal/infra/storage/policy"
	reviewRepo "github.com/servicehub/booking-engine/internal/infra/storage/review"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	bookingsService "github.com/servicehub/booking-engine/internal/service/bookings"
	catalogService "github.com/servicehub/booking-engine/internal/service/catalog"
	policyService "github.com/servicehub/booking-engine/internal/service/policy"
	reviewsService "github.com/servicehub/booking-engine/internal/service/reviews"
	createBookingUC "github.com/servicehub/booking-engine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/servicehub/booking-engine/internal/usecase/get_available_slots"
	transitionBookingUC "github.com/servicehub/booking-engine/internal/usecase/transition_booking"
	"github.com/servicehub/booking-engine/pkg/dbmetrics"
	"github.com/servicehub/booking-engine/pkg/logger"
	"github.com/servicehub/booking-engine/pkg/metrics"
	"github.com/servicehub/booking-engine/pkg/providerlock"
	"github.com/servicehub/booking-engine/pkg/simpletxmanager"
	"github.com/servicehub/booking-engine/pkg/txmanager"
	"github.com/servicehub/booking-engine/pkg/types"
)

// TxManager общий интерфейс менеджеров транзакций для usecases и сервисов
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-engine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции (если включено)
	if cfg.Database.Migrate {
		migrator, err := app.NewMigrator(db, cfg.Database.MigrationsDir)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		version, err := migrator.Version(context.Background())
		if err != nil {
			log.Fatal("Failed to get migrations version: %v", err)
		}
		log.Info("Migrations applied, schema version %d", version)
	}

	// Инициализируем кеш доступности (если включен)
	var availCache *availability.Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		availCache = availability.New(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		serviceRepository *serviceRepo.Repository
		policyRepository  *policyRepo.Repository
		reviewRepository  *reviewRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		reviewRepository = reviewRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		reviewRepository = reviewRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Блокировки расписаний исполнителей
	lockTimeout := time.Duration(cfg.Booking.LockTimeoutMS) * time.Millisecond
	var lockManager *providerlock.Manager
	if cfg.Metrics.Enabled {
		lockManager = providerlock.NewManagerWithMetrics(lockTimeout, metricsCollector)
	} else {
		lockManager = providerlock.NewManager(lockTimeout)
	}

	// Дефолтная политика слотов из конфигурации
	defaultOpenTime, err := types.NewTimeStringFromString(cfg.Booking.DefaultOpenTime)
	if err != nil {
		log.Fatal("Invalid booking.default_open_time: %v", err)
	}
	defaultCloseTime, err := types.NewTimeStringFromString(cfg.Booking.DefaultCloseTime)
	if err != nil {
		log.Fatal("Invalid booking.default_close_time: %v", err)
	}

	// Инициализируем use cases
	var slotsCache getAvailableSlotsUC.SlotCache
	var createCache createBookingUC.SlotCache
	var transitionCache transitionBookingUC.SlotCache
	var policyCache policyService.SlotCache
	if availCache != nil {
		slotsCache = availCache
		createCache = availCache
		transitionCache = availCache
		policyCache = availCache
	}

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		serviceRepository,
		bookingRepository,
		policyRepository,
		slotsCache,
		getAvailableSlotsUC.Defaults{
			OpenTime:         defaultOpenTime,
			CloseTime:        defaultCloseTime,
			SlotStepMinutes:  cfg.Booking.DefaultSlotStepMinutes,
			AdvanceDays:      cfg.Booking.DefaultAdvanceDays,
			MinNoticeMinutes: cfg.Booking.DefaultMinNoticeMinutes,
			MaxHorizonDays:   cfg.Booking.MaxHorizonDays,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		serviceRepository,
		bookingRepository,
		policyRepository,
		txMgr,
		lockManager,
		createCache,
		createBookingUC.Defaults{
			OpenTime:         defaultOpenTime,
			CloseTime:        defaultCloseTime,
			SlotStepMinutes:  cfg.Booking.DefaultSlotStepMinutes,
			AdvanceDays:      cfg.Booking.DefaultAdvanceDays,
			MinNoticeMinutes: cfg.Booking.DefaultMinNoticeMinutes,
		},
		log,
	)

	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		txMgr,
		lockManager,
		transitionCache,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	catalogSvc := catalogService.NewService(serviceRepository, log)
	reviewSvc := reviewsService.NewService(reviewRepository, bookingRepository, serviceRepository, txMgr, log)
	policySvc := policyService.NewService(
		policyRepository,
		serviceRepository,
		policyCache,
		policyService.Defaults{
			OpenTime:         defaultOpenTime,
			CloseTime:        defaultCloseTime,
			SlotStepMinutes:  cfg.Booking.DefaultSlotStepMinutes,
			AdvanceDays:      cfg.Booking.DefaultAdvanceDays,
			MinNoticeMinutes: cfg.Booking.DefaultMinNoticeMinutes,
		},
		log,
	)

	// Инициализируем handlers
	searchServices := searchServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	createReview := createReviewHandler.NewHandler(reviewSvc, log)
	getServiceReviews := getServiceReviewsHandler.NewHandler(reviewSvc, log)
	getSlotPolicy := getSlotPolicyHandler.NewHandler(policySvc, log)
	updateSlotPolicy := updateSlotPolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг
	api.HandleFunc("/services", searchServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)

	// Доступные слоты услуги
	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Отзывы на услугу
	api.HandleFunc("/services/{serviceId}/reviews", getServiceReviews.Handle).Methods(http.MethodGet)

	// Действующая политика слотов исполнителя
	api.HandleFunc("/providers/{providerId}/slot-policy", getSlotPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", transitionBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет исполнителя ---
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/slot-policy", updateSlotPolicy.Handle).Methods(http.MethodPut)

	// --- Отзывы ---
	protected.HandleFunc("/reviews", createReview.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
