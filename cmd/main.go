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

	bookBundleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/book_bundle"
	cancelReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_reservation"
	completeReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/complete_reservation"
	createReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_reservation"
	deleteSpecialDayHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_special_day"
	exportReservationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/export_reservations"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBusinessReservationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_business_reservations"
	getCompletedReservationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_completed_reservations"
	getCustomerReservationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_customer_reservations"
	getDailyStatsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_daily_stats"
	getOpenHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_open_hours"
	getReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_reservation"
	getServiceRecordsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_service_records"
	getSpecialDaysHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_special_days"
	getWeeklyAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_weekly_availability"
	rescheduleReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reschedule_reservation"
	setSpecialDayHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/set_special_day"
	setWeeklyAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/set_weekly_availability"
	updateReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/notify"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	bundleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/bundle"
	completionRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/completion"
	reportingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reporting"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessdirectory"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	accessService "github.com/m04kA/SMC-SchedulingService/internal/service/access"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	reportingService "github.com/m04kA/SMC-SchedulingService/internal/service/reporting"
	reservationsService "github.com/m04kA/SMC-SchedulingService/internal/service/reservations"
	bookBundleUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_bundle"
	cancelReservationUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_reservation"
	completeReservationUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/complete_reservation"
	createReservationUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	rescheduleReservationUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_reservation"
	updateReservationUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

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

	log.Info("Starting SMC-SchedulingService...")

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обертка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	bundleRepository := bundleRepo.NewRepository(wrappedDB)
	completionRepository := completionRepo.NewRepository(wrappedDB)
	reportingRepository := reportingRepo.NewRepository(wrappedDB.Raw())

	txMgr := txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Database.TxMaxRetries)

	// Ядро расписания
	resolver := scheduling.NewResolver(availabilityRepository)
	detector := scheduling.NewDetector(reservationRepository)

	// Кэш слотов
	var slotCache slots.Store = slots.Nop{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кэш необязателен, сервис работает и без него
			log.Warn("Redis is unavailable, slot cache disabled: %v", err)
		} else {
			slotCache = slots.NewCache(redisClient, time.Duration(cfg.Redis.SlotsTTL)*time.Second)
			log.Info("Slot cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.SlotsTTL)
		}
		cancelPing()
	}

	// Уведомления
	publisher, err := notify.NewPublisher(cfg.Notifications, log)
	if err != nil {
		log.Fatal("Failed to initialize notification publisher: %v", err)
	}
	notifier := notify.NewNotifier(
		publisher,
		metricsCollector,
		clock.Real{},
		log,
		time.Duration(cfg.Notifications.PublishTimeout)*time.Second,
	)
	log.Info("Notifications initialized (driver=%s)", cfg.Notifications.Driver)

	// Интеграции
	directoryClient := businessdirectory.NewClient(
		cfg.BusinessDirectory.URL,
		time.Duration(cfg.BusinessDirectory.Timeout)*time.Second,
		log,
	)
	log.Info("Business directory client initialized (url=%s, timeout=%ds)",
		cfg.BusinessDirectory.URL, cfg.BusinessDirectory.Timeout)

	// Сервисы
	access := accessService.NewService(directoryClient, log)
	reservationsSvc := reservationsService.NewService(reservationRepository, bundleRepository, access, log)
	availabilitySvc := availabilityService.NewService(availabilityRepository, resolver, access, slotCache, txMgr, log)
	reportingSvc := reportingService.NewService(reportingRepository, access, log)

	// Use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		detector,
		resolver,
		txMgr,
		notifier,
		slotCache,
		metricsCollector,
		clock.Real{},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		resolver,
		slotCache,
		cfg.Scheduling.SlotIntervalMinutes,
		clock.Real{},
		log,
	)

	rescheduleReservationUseCase := rescheduleReservationUC.NewUseCase(
		reservationRepository,
		access,
		detector,
		resolver,
		txMgr,
		notifier,
		slotCache,
		metricsCollector,
		clock.Real{},
		log,
	)

	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		access,
		detector,
		resolver,
		txMgr,
		slotCache,
		metricsCollector,
		clock.Real{},
		log,
	)

	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		bundleRepository,
		access,
		txMgr,
		notifier,
		slotCache,
		metricsCollector,
		clock.Real{},
		log,
	)

	completeReservationUseCase := completeReservationUC.NewUseCase(
		reservationRepository,
		completionRepository,
		bundleRepository,
		access,
		txMgr,
		notifier,
		metricsCollector,
		cfg.Scheduling.FollowUpDelay(),
		clock.Real{},
		log,
	)

	bookBundleUseCase := bookBundleUC.NewUseCase(
		reservationRepository,
		bundleRepository,
		detector,
		resolver,
		txMgr,
		notifier,
		slotCache,
		metricsCollector,
		clock.Real{},
		log,
	)

	// Handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	rescheduleReservation := rescheduleReservationHandler.NewHandler(rescheduleReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	completeReservation := completeReservationHandler.NewHandler(completeReservationUseCase, log)
	bookBundle := bookBundleHandler.NewHandler(bookBundleUseCase, log)

	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	getServiceRecords := getServiceRecordsHandler.NewHandler(reservationsSvc, log)
	getCustomerReservations := getCustomerReservationsHandler.NewHandler(reservationsSvc, log)
	getBusinessReservations := getBusinessReservationsHandler.NewHandler(reservationsSvc, log)

	getWeeklyAvailability := getWeeklyAvailabilityHandler.NewHandler(availabilitySvc, log)
	setWeeklyAvailability := setWeeklyAvailabilityHandler.NewHandler(availabilitySvc, log)
	getSpecialDays := getSpecialDaysHandler.NewHandler(availabilitySvc, log)
	setSpecialDay := setSpecialDayHandler.NewHandler(availabilitySvc, log)
	deleteSpecialDay := deleteSpecialDayHandler.NewHandler(availabilitySvc, log)
	getOpenHours := getOpenHoursHandler.NewHandler(availabilitySvc, log)

	getDailyStats := getDailyStatsHandler.NewHandler(reportingSvc, log)
	exportReservations := exportReservationsHandler.NewHandler(reportingSvc, log)
	getCompletedReservations := getCompletedReservationsHandler.NewHandler(reportingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

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

	// Свободные слоты на день
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Часы работы
	api.HandleFunc("/businesses/{businessId}/availability", getWeeklyAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/special-days", getSpecialDays.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/open-hours", getOpenHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/reschedule", rescheduleReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/complete", completeReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/services", getServiceRecords.Handle).Methods(http.MethodGet)

	// История бронирований клиента
	protected.HandleFunc("/users/me/reservations", getCustomerReservations.Handle).Methods(http.MethodGet)

	// --- Пакеты услуг ---
	protected.HandleFunc("/bundles/{bundleId}/book", bookBundle.Handle).Methods(http.MethodPost)

	// --- Управление бизнесом (владелец и сотрудники) ---
	protected.HandleFunc("/businesses/{businessId}/reservations", getBusinessReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/availability", setWeeklyAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/special-days/{date}", setSpecialDay.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/special-days/{date}", deleteSpecialDay.Handle).Methods(http.MethodDelete)

	// --- Отчеты ---
	protected.HandleFunc("/businesses/{businessId}/reports/daily", getDailyStats.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/reports/export", exportReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reports/completed", getCompletedReservations.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уведомлений, запущенных обработанными запросами
	if err := notifier.Close(); err != nil {
		log.Error("Failed to close notifier: %v", err)
	}

	close(stopMetricsCh)
	log.Info("Server stopped gracefully")
}
