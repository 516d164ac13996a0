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

	cancelAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/salonkit/booking-service/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/salonkit/booking-service/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/salonkit/booking-service/internal/api/handlers/get_client_appointments"
	getCompanyAppointmentsHandler "github.com/salonkit/booking-service/internal/api/handlers/get_company_appointments"
	getCompanyConfigHandler "github.com/salonkit/booking-service/internal/api/handlers/get_company_config"
	getDayOccupancyHandler "github.com/salonkit/booking-service/internal/api/handlers/get_day_occupancy"
	updateCompanyConfigHandler "github.com/salonkit/booking-service/internal/api/handlers/update_company_config"
	widgetSessionsHandler "github.com/salonkit/booking-service/internal/api/handlers/widget_sessions"
	"github.com/salonkit/booking-service/internal/api/middleware"
	"github.com/salonkit/booking-service/internal/config"
	appointmentRepo "github.com/salonkit/booking-service/internal/infra/storage/appointment"
	configRepo "github.com/salonkit/booking-service/internal/infra/storage/config"
	catalogServiceClient "github.com/salonkit/booking-service/internal/integrations/catalogservice"
	clientServiceClient "github.com/salonkit/booking-service/internal/integrations/clientservice"
	appointmentsService "github.com/salonkit/booking-service/internal/service/appointments"
	configService "github.com/salonkit/booking-service/internal/service/config"
	createAppointmentUC "github.com/salonkit/booking-service/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/salonkit/booking-service/internal/usecase/get_available_slots"
	getDayOccupancyUC "github.com/salonkit/booking-service/internal/usecase/get_day_occupancy"
	"github.com/salonkit/booking-service/internal/widget"
	"github.com/salonkit/booking-service/pkg/dbmetrics"
	"github.com/salonkit/booking-service/pkg/logger"
	"github.com/salonkit/booking-service/pkg/metrics"
	"github.com/salonkit/booking-service/pkg/simpletxmanager"
	"github.com/salonkit/booking-service/pkg/txmanager"
)

const widgetCleanupInterval = 5 * time.Minute

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

	log.Info("Starting SalonKit-BookingService...")
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

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	clientClient := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, ClientService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		configRepository      *configRepo.Repository
		txMgr                 createAppointmentUC.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		configRepository = configRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		configRepository = configRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogClient,
		log,
	)
	configSvc := configService.NewService(
		configRepository,
		catalogClient,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		configRepository,
		catalogClient,
		clientClient,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		configRepository,
		catalogClient,
		log,
	)

	getDayOccupancyUseCase := getDayOccupancyUC.NewUseCase(
		appointmentRepository,
		configRepository,
		log,
	)

	// Менеджер сессий виджета записи
	widgetManager := widget.NewManager(
		getAvailableSlotsUseCase,
		createAppointmentUseCase,
		time.Duration(cfg.Widget.SessionTTLMinutes)*time.Minute,
		log,
	)
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go widgetManager.RunCleanup(cleanupCtx, widgetCleanupInterval)
	log.Info("Widget session manager started (ttl=%dm)", cfg.Widget.SessionTTLMinutes)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getDayOccupancy := getDayOccupancyHandler.NewHandler(getDayOccupancyUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getCompanyAppointments := getCompanyAppointmentsHandler.NewHandler(appointmentSvc, log)
	getCompanyConfig := getCompanyConfigHandler.NewHandler(configSvc, log)
	updateCompanyConfig := updateCompanyConfigHandler.NewHandler(configSvc, log)
	widgetSessions := widgetSessionsHandler.NewHandler(widgetManager, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты для записи к мастеру
	api.HandleFunc("/companies/{companyId}/staff/{staffId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Занятость мастера по дням
	api.HandleFunc("/companies/{companyId}/staff/{staffId}/day-occupancy",
		getDayOccupancy.Handle).Methods(http.MethodGet)

	// Конфигурация расписания компании
	api.HandleFunc("/companies/{companyId}/config",
		getCompanyConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Client-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление компанией (для менеджеров) ---
	// Список записей компании
	protected.HandleFunc("/companies/{companyId}/appointments", getCompanyAppointments.Handle).Methods(http.MethodGet)

	// Обновление конфигурации компании
	protected.HandleFunc("/companies/{companyId}/config", updateCompanyConfig.Handle).Methods(http.MethodPut)

	// --- Виджет записи ---
	// Создание сессии виджета
	protected.HandleFunc("/widget/sessions", widgetSessions.HandleStart).Methods(http.MethodPost)

	// Состояние сессии
	protected.HandleFunc("/widget/sessions/{sessionId}", widgetSessions.HandleGet).Methods(http.MethodGet)

	// Выбор даты
	protected.HandleFunc("/widget/sessions/{sessionId}/date", widgetSessions.HandleSelectDate).Methods(http.MethodPut)

	// Выбор услуг
	protected.HandleFunc("/widget/sessions/{sessionId}/services", widgetSessions.HandleSelectServices).Methods(http.MethodPut)

	// Выбор слота
	protected.HandleFunc("/widget/sessions/{sessionId}/slot", widgetSessions.HandlePickSlot).Methods(http.MethodPut)

	// Подтверждение записи
	protected.HandleFunc("/widget/sessions/{sessionId}/submit", widgetSessions.HandleSubmit).Methods(http.MethodPost)

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

	// Останавливаем фоновые задачи
	cancelCleanup()
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
