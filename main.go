package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"earn-chain/config"
	"earn-chain/handlers"
	"earn-chain/services"
	"earn-chain/store"
	"earn-chain/telegram"
	"earn-chain/utils"
	"earn-chain/workers"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	logrus.SetLevel(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, logger.Warn)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	st := store.New(db)

	userService := services.NewUserService(st, clock)
	adService := services.NewAdService(st, clock)
	claimService := services.NewClaimService(st, clock)
	queryService := services.NewQueryService(st, clock)

	if cfg.SeedAds {
		if _, err := adService.SeedSampleAds(ctx); err != nil {
			logrus.Fatalf("failed to seed ads: %v", err)
		}
	}

	var uploader workers.Uploader
	if cfg.R2.Enabled() {
		client, err := utils.NewR2Client(ctx, cfg.R2.AccountID, cfg.R2.AccessKeyID, cfg.R2.AccessKeySecret)
		if err != nil {
			logrus.Fatalf("failed to initialize R2 client: %v", err)
		}
		uploader = utils.NewR2Uploader(client, cfg.R2.Bucket)
	}
	ledgerWorker := workers.NewLedgerWorker(st, clock, uploader)
	if _, err := workers.StartLedgerScheduler(ctx, ledgerWorker, clock, cfg.AuditInterval, cfg.ExportInterval); err != nil {
		logrus.Fatal(err)
	}

	if cfg.TelegramBotToken != "" {
		launcher := telegram.NewLauncher(cfg.WebAppURL, userService)
		go func() {
			if err := telegram.Run(ctx, cfg.TelegramBotToken, launcher); err != nil {
				logrus.Errorf("🤖 Bot stopped: %v", err)
			}
		}()
	} else {
		logrus.Warn("⚠️  TELEGRAM_BOT_TOKEN not set, chat bot disabled")
	}

	app := handlers.NewApp(handlers.Deps{
		Users:          userService,
		Ads:            adService,
		Claims:         claimService,
		Queries:        queryService,
		AdminUserID:    cfg.AdminUserID,
		AllowedOrigins: cfg.AllowedOrigins,
		WebDir:         cfg.WebDir,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Errorf("Server error: %v", err)
			stop()
		}
	}()

	logrus.Infof("✅ Earn Chain Server running on http://localhost:%s", cfg.Port)
	logrus.Infof("✅ Balance audit every %s", cfg.AuditInterval)
	if cfg.R2.Enabled() {
		logrus.Infof("✅ Claim export to R2 bucket %q every %s", cfg.R2.Bucket, cfg.ExportInterval)
	}

	<-ctx.Done()
	logrus.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.Warnf("Server shutdown error: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
