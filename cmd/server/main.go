package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/api"
	"github.com/nriproperty/portal/internal/app"
	"github.com/nriproperty/portal/internal/app/maintenance"
	iauth "github.com/nriproperty/portal/internal/auth"
	"github.com/nriproperty/portal/internal/database"
	"github.com/nriproperty/portal/internal/handlers"
	"github.com/nriproperty/portal/internal/middleware"
	"github.com/nriproperty/portal/internal/services"
	"github.com/nriproperty/portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("portal-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}

	cfg, err := app.LoadConfig(paths...)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	db, err := database.Open(database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Name:     cfg.Database.Name,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Options:  cfg.Database.Options,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDatabase(db, log)

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	jwtService, err := iauth.NewJWTService(cfg.Auth.JWTSecret,
		iauth.WithIssuer(cfg.Auth.Issuer),
		iauth.WithSessionTTL(cfg.Auth.SessionTTL),
		iauth.WithAdminTTL(cfg.Auth.AdminTTL),
	)
	if err != nil {
		return fmt.Errorf("initialise jwt service: %w", err)
	}

	leadSvc, err := services.NewLeadService(db)
	if err != nil {
		return fmt.Errorf("initialise lead service: %w", err)
	}

	mailer, err := app.NewMailer(cfg.Email)
	if err != nil {
		return fmt.Errorf("initialise mailer: %w", err)
	}
	notifier := services.NewMailNotifier(mailer, cfg.Email.Brand, cfg.Email.From, cfg.Email.AdminEmail)

	otpSvc, err := iauth.NewOTPService(leadSvc, notifier, jwtService,
		iauth.WithOTPTTL(cfg.Auth.OTPTTL),
		iauth.WithOTPDigits(cfg.Auth.OTPDigits),
	)
	if err != nil {
		return fmt.Errorf("initialise otp service: %w", err)
	}

	chatSvc, err := services.NewChatService(db)
	if err != nil {
		return fmt.Errorf("initialise chat service: %w", err)
	}

	contractSvc, err := services.NewContractService(db)
	if err != nil {
		return fmt.Errorf("initialise contract service: %w", err)
	}

	supportSvc, err := services.NewSupportService(db, notifier)
	if err != nil {
		return fmt.Errorf("initialise support service: %w", err)
	}

	viewSvc, err := services.NewViewService(db)
	if err != nil {
		return fmt.Errorf("initialise view service: %w", err)
	}

	notificationSvc, err := services.NewNotificationService(db)
	if err != nil {
		return fmt.Errorf("initialise notification service: %w", err)
	}

	adminSvc, err := services.NewAdminService(db, jwtService)
	if err != nil {
		return fmt.Errorf("initialise admin service: %w", err)
	}

	if err := adminSvc.Bootstrap(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin account: %w", err)
	}

	if cfg.Maintenance.Enabled {
		cleaner := maintenance.NewCleaner(db,
			maintenance.WithOTPSchedule(cfg.Maintenance.OTPCleanupSchedule))
		if err := cleaner.Start(); err != nil {
			return fmt.Errorf("start maintenance jobs: %w", err)
		}
		defer func() {
			stopCtx := cleaner.Stop()
			if err := cleaner.RunOnce(stopCtx); err != nil {
				log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
			}
		}()
	}

	var checker middleware.ApprovalChecker
	if cfg.Auth.RecheckApproval {
		checker = leadSvc
	}

	router := api.NewRouter(api.Config{
		Tokens:          jwtService,
		ApprovalChecker: checker,
		Auth:            handlers.NewAuthHandler(otpSvc, leadSvc),
		Enquiry:         handlers.NewEnquiryHandler(leadSvc, notifier),
		Dashboard:       handlers.NewDashboardHandler(leadSvc, contractSvc, notificationSvc, chatSvc),
		Contract:        handlers.NewContractHandler(leadSvc, contractSvc, cfg.Uploads.Dir),
		Support:         handlers.NewSupportHandler(supportSvc),
		Views:           handlers.NewViewHandler(viewSvc),
		Admin:           handlers.NewAdminHandler(adminSvc, leadSvc, chatSvc, supportSvc, viewSvc, notificationSvc),
		Health:          handlers.NewHealthHandler(db),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		UploadsDir:      cfg.Uploads.Dir,
		OTPRateLimit:    cfg.Server.RateLimitPerMinute,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("close database", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}
