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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reliquia-backend/catalog"
	"reliquia-backend/config"
	"reliquia-backend/controllers"
	"reliquia-backend/repository"
	"reliquia-backend/routes"
	"reliquia-backend/services"
	"reliquia-backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	appointments := repository.NewAppointmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	catalogService := services.NewCatalogService(serviceRepo, cat, logger)
	if _, err := catalogService.Seed(ctx); err != nil {
		return err
	}

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	var locker services.SlotLocker = services.NewMemorySlotLocker()
	health := map[string]controllers.Pinger{"database": dbPinger(db)}
	if rdb != nil {
		defer rdb.Close()
		locker = services.NewRedisSlotLocker(rdb)
		health["redis"] = redisPinger(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, slot holds are process-local")
	}

	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.TwilioEnabled() {
		notifier = services.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
			cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber, logger)
	}

	loc := cfg.Location()
	notifications := services.NewNotificationService(notifier, notificationRepo, logger)
	accounts := services.NewAccountService(users, cfg.AdminEmails, loc, logger)
	booking := services.NewBookingService(serviceRepo, appointments, users, cat, locker, notifications,
		services.BookingConfig{Location: loc, HoldTTL: cfg.SlotHoldTTL}, logger)
	payments := services.NewPaymentService(appointments, users, services.PixConfig{
		Key:          cfg.PixKey,
		MerchantName: cfg.PixMerchantName,
		MerchantCity: cfg.PixMerchantCity,
	})
	earnings := services.NewEarningsService(appointments, cfg.BarberShare, loc)
	moderation := services.NewModerationService(users, logger)
	dashboard := services.NewDashboardService(users, appointments, loc)

	reminders, err := services.NewReminderScheduler(cfg.ReminderCron, appointments, notifications, loc, logger)
	if err != nil {
		return err
	}
	reminders.Start()
	defer reminders.Stop()

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiryHours)
	r := routes.SetupRouter(routes.Deps{
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger,
		Tokens:       tokens,
		AdminChecker: accounts,
		HealthChecks: health,
		Auth:         controllers.NewAuthController(accounts, tokens, !cfg.IsDevelopment(), logger),
		Catalog:      controllers.NewCatalogController(catalogService, logger),
		Appointments: controllers.NewAppointmentController(booking, logger),
		Payments:     controllers.NewPaymentController(payments, logger),
		Admin:        controllers.NewAdminController(dashboard, earnings, moderation, logger),
	})
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func dbPinger(db *gorm.DB) controllers.PingerFunc {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func redisPinger(rdb *redis.Client) controllers.PingerFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
