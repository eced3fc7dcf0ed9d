package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "bookmark-backend/cmd/api"
	authRepo "bookmark-backend/internal/auth/repository"
	authUsecase "bookmark-backend/internal/auth/usecase"
	"bookmark-backend/internal/notification"
	reminderdomain "bookmark-backend/internal/reminder/domain"
	reminderRepo "bookmark-backend/internal/reminder/repository"
	"bookmark-backend/internal/reminder/scheduler"
	reminderUsecase "bookmark-backend/internal/reminder/usecase"
	siteRepo "bookmark-backend/internal/site/repository"
	"bookmark-backend/pkg/config"
	"bookmark-backend/pkg/database"
	"bookmark-backend/pkg/email"
	"bookmark-backend/pkg/fcm"
	"bookmark-backend/pkg/logger"
)

type stores struct {
	reminders reminderRepo.ReminderRepository
	users     authRepo.UserRepository
	sites     siteRepo.SiteRepository
	fcmTokens authRepo.FCMTokenRepository
}

func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)
	log := logger.Component("main")

	ctx := context.Background()

	// Initialize repositories (dependency injection)
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize store")
	}
	log.WithField("driver", cfg.StoreDriver).Info("Store initialized")

	mailer := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SMTPSender,
		Timeout:  cfg.SMTPTimeout,
	})
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST not set, email reminders will fail and stay due")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(st.users, cfg.JWTSecret)
	reminderUsecaseInstance := reminderUsecase.NewReminderUsecase(st.reminders, st.users, st.sites, mailer)
	reminderUsecaseInstance.SetConcurrency(cfg.ScanConcurrency)
	reminderUsecaseInstance.SetRetentionWindow(cfg.RetentionWindow)

	// Initialize FCM Client (optional, reminders work without it)
	if cfg.FirebaseCredentials != "" && st.fcmTokens != nil {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize FCM client, push notifications disabled")
		} else {
			reminderUsecaseInstance.SetPushNotifier(notification.NewService(st.fcmTokens, fcmClient))
		}
	} else {
		log.Debug("No Firebase credentials configured, FCM disabled")
	}

	sched := scheduler.NewReminderScheduler(reminderUsecaseInstance, cfg.ScanInterval, cfg.RetentionSchedule)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start reminder scheduler")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, reminderUsecaseInstance, cfg)
	srv := handler.NewServer(":" + cfg.Port)

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	sched.Stop()
	log.Info("Shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			return nil, err
		}
		// Users, sites and device tokens belong to the organizer API
		if err := db.AutoMigrate(&reminderdomain.Reminder{}); err != nil {
			return nil, err
		}
		return &stores{
			reminders: reminderRepo.NewGormReminderRepository(db),
			users:     authRepo.NewUserRepository(db),
			sites:     siteRepo.NewGormSiteRepository(db),
			fcmTokens: authRepo.NewFCMTokenRepository(db),
		}, nil

	case config.StoreDriverMongo:
		db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			reminders: reminderRepo.NewMongoReminderRepository(db),
			users:     authRepo.NewMongoUserRepository(db),
			sites:     siteRepo.NewMongoSiteRepository(db),
			fcmTokens: authRepo.NewMongoFCMTokenRepository(db),
		}, nil

	case config.StoreDriverMemory:
		return &stores{
			reminders: reminderRepo.NewMemoryReminderRepository(),
			users:     authRepo.NewMemoryUserRepository(),
			sites:     siteRepo.NewMemorySiteRepository(),
		}, nil

	default:
		return nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}
