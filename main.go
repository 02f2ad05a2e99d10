package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"wellness-payout-system/handlers"
	"wellness-payout-system/models"
	"wellness-payout-system/services"
	"wellness-payout-system/utils"
	"wellness-payout-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// No .env is fine in container deployments, env comes from the runtime.
	_ = godotenv.Load()

	zlog, err := zap.NewProduction()
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer zlog.Sync()
	log := zlog.Sugar()

	// Stores: postgres when DATABASE_URL is set, in-memory otherwise.
	var goalStore services.GoalStore
	var payoutStore services.PayoutStore
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		if err := db.AutoMigrate(&models.Goal{}, &models.PayoutRecord{}); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
		goalStore = services.NewGormGoalStore(db)
		payoutStore = services.NewGormPayoutStore(db)
		log.Info("using postgres goal/payout stores")
	} else {
		goalStore = services.NewMemoryGoalStore()
		payoutStore = services.NewMemoryPayoutStore()
		log.Warn("DATABASE_URL not set, using in-memory stores — state is lost on restart")
	}

	vendor := workers.NewHTTPVendorClient(
		getEnv("VENDOR_API_URL", "https://api.prod.whoop.com"),
		os.Getenv("VENDOR_API_TOKEN"),
	)
	ledger := workers.NewHTTPLedgerClient(
		getEnv("LEDGER_API_URL", "http://localhost:9100"),
		os.Getenv("LEDGER_API_TOKEN"),
	)

	var archiver utils.ClaimArchiver
	s3Archiver, err := utils.NewS3ArchiverFromEnv()
	if err != nil {
		log.Fatalw("failed to init claim archiver", "error", err)
	}
	if s3Archiver != nil {
		archiver = s3Archiver
		log.Info("claim archiving enabled")
	} else {
		archiver = utils.NoopArchiver{}
	}

	payouts := services.NewPayoutService(payoutStore, ledger, log)
	verification := services.NewVerificationService(
		goalStore, payouts, vendor, archiver, clockwork.NewRealClock(), log,
		services.VerificationConfig{
			Interval:            envDuration("VERIFICATION_INTERVAL", time.Hour),
			LookbackDays:        envInt("VERIFICATION_LOOKBACK_DAYS", 30),
			WebhookLookbackDays: envInt("WEBHOOK_LOOKBACK_DAYS", 7),
		},
	)
	goalService := services.NewGoalService(goalStore, log)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Webhook-Secret",
	}))

	handlers.SetupGoalRoutes(app, goalService, log)
	handlers.SetupVerificationRoutes(app, verification, log)
	handlers.SetupWebhookRoutes(app, verification, log)

	if err := verification.Start(); err != nil {
		log.Fatalw("failed to start verification engine", "error", err)
	}

	addr := ":" + getEnv("PORT", "8090")
	go func() {
		log.Infow("server running", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalw("server stopped", "error", err)
		}
	}()

	// Graceful shutdown: stop scheduling new cycles first, then the server.
	// In-flight cycles run to completion.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	if err := verification.Stop(); err != nil {
		log.Errorw("failed to stop verification engine", "error", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Errorw("failed to shut down server", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
