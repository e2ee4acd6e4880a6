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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	deleteSchedulingConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_scheduling_config"
	getAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getCalendarStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_calendar_status"
	getCustomerBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_customer_bookings"
	getSchedulingConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_scheduling_config"
	getStaffBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_staff_bookings"
	updateBookingStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_booking_status"
	updateSchedulingConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_scheduling_config"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	availabilityCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/availability"
	appointmentTypeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment_type"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
	configRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/config"
	customerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/customer"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	configService "github.com/m04kA/SMC-AppointmentService/internal/service/config"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_availability"
	getCalendarStatusUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_calendar_status"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

// cacheInvalidator общий интерфейс для сервисов, сбрасывающих кеш доступности
type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(defaultConfigPath)
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

	log.Info("Starting SMC-AppointmentService...")

	location, err := cfg.Scheduling.LoadLocation()
	if err != nil {
		log.Fatal("Invalid scheduling location: %v", err)
	}

	// Инициализируем метрики (если включены). nil коллектор = метрики отключены.
	var metricsCollector *metrics.Metrics
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Проверяем соединение
	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Scheduling.QueryTimeout())
	err = wrappedDB.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	txMgr := txmanager.NewTransactionManager(wrappedDB, metricsCollector)

	// Кеш доступности (опционально). nil интерфейс = кеш отключен.
	var (
		invalidator cacheInvalidator
		queryCache  getAvailabilityUC.AvailabilityCache
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Scheduling.QueryTimeout())
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Кеш не обязателен: сервис работает и без него, ошибки кеша только логируются
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		}
		pingCancel()

		cache := availabilityCache.New(rdb, cfg.Redis.Prefix, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		invalidator = cache
		queryCache = cache
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Публикатор событий бронирований (без брокеров работает как no-op)
	publisher := events.NewPublisher(events.Config{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: time.Duration(cfg.Kafka.WriteTimeoutMs) * time.Millisecond,
	}, log)
	if publisher.Enabled() {
		log.Info("Booking events enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Инициализируем репозитории
	appointmentTypeRepository := appointmentTypeRepo.NewRepository(wrappedDB)
	staffRepository := staffRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	configRepository := configRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		staffRepository,
		txMgr,
		invalidator,
		publisher,
		bookingsService.Settings{QueryTimeout: cfg.Scheduling.QueryTimeout()},
		log,
	)
	configSvc := configService.NewService(
		configRepository,
		invalidator,
		configService.Settings{QueryTimeout: cfg.Scheduling.QueryTimeout()},
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		appointmentTypeRepository,
		staffRepository,
		calendarRepository,
		bookingRepository,
		configRepository,
		queryCache,
		metricsCollector,
		getAvailabilityUC.Settings{
			QueryTimeout: cfg.Scheduling.QueryTimeout(),
			MaxRangeDays: cfg.Scheduling.MaxRangeDays,
			Location:     location,
			CacheTTL:     time.Duration(cfg.Redis.TTLSeconds) * time.Second,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentTypeRepository,
		staffRepository,
		customerRepository,
		calendarRepository,
		bookingRepository,
		configRepository,
		txMgr,
		invalidator,
		publisher,
		metricsCollector,
		createBookingUC.Settings{
			Timeout:  cfg.Scheduling.BookingTimeout(),
			Location: location,
		},
		log,
	)

	getCalendarStatusUseCase := getCalendarStatusUC.NewUseCase(
		staffRepository,
		calendarRepository,
		getCalendarStatusUC.Settings{
			LookaheadMonths: cfg.Scheduling.StatusLookaheadMonths,
			ThresholdDays:   cfg.Scheduling.StatusThresholdDays,
			QueryTimeout:    cfg.Scheduling.QueryTimeout(),
			Location:        location,
		},
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getCalendarStatus := getCalendarStatusHandler.NewHandler(getCalendarStatusUseCase, log)
	getSchedulingConfig := getSchedulingConfigHandler.NewHandler(configSvc, log)
	updateSchedulingConfig := updateSchedulingConfigHandler.NewHandler(configSvc, log)
	deleteSchedulingConfig := deleteSchedulingConfigHandler.NewHandler(configSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты по типу приёма
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Действующая конфигурация расписания
	api.HandleFunc("/scheduling-config", getSchedulingConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Сотрудники ---
	protected.HandleFunc("/staff/{staffId}/bookings", getStaffBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/calendar-status", getCalendarStatus.Handle).Methods(http.MethodGet)

	// --- Конфигурация расписания ---
	protected.HandleFunc("/scheduling-config", updateSchedulingConfig.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/scheduling-config", deleteSchedulingConfig.Handle).Methods(http.MethodDelete)

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
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки оставшихся событий
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}

	log.Info("Server stopped gracefully")
}
