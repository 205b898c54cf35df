package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/di"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/infrastructure/env"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	envService := env.NewEnvService()

	logCfg := logger.DefaultConfig()
	logCfg.Dir = envService.GetDefault("LOG_DIR", logCfg.Dir)
	logCfg.Level = envService.GetDefault("LOG_LEVEL", logCfg.Level)
	log, closeLog := logger.New(logCfg)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := di.Config{
		DatabaseDSN:     databaseDSN(envService),
		ERPBaseURL:      envService.MustGet("ERP_BASE_URL"),
		ERPMenuURL:      envService.Get("ERP_MENU_URL"),
		ERPUsername:     envService.MustGet("ERP_USERNAME"),
		ERPPassword:     envService.MustGet("ERP_PASSWORD"),
		DefaultBranch:   envService.Get("ERP_DEFAULT_BRANCH"),
		BrowserHeadless: envService.GetBool("BROWSER_HEADLESS", true),
		SubmitEnabled:   envService.GetBool("SUBMIT_ENABLED", true),
		ScreenshotDir:   envService.GetDefault("SCREENSHOT_DIR", "screenshots"),
		FuzzyThreshold:  envService.GetFloat("FUZZY_THRESHOLD", 0),
	}

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal("initialization failed", zap.Error(err))
	}
	defer container.Close()

	maxIterations := envService.GetInt("MAX_ITERATIONS", 0)
	log.Info("queue processing started", zap.Int("max_iterations", maxIterations))

	if err := container.Processor.RunLoop(ctx, maxIterations); err != nil {
		log.Error("queue processing stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("queue drained")
}

// databaseDSN prefers a full DATABASE_URL, otherwise composes one from the
// individual DB_* settings.
func databaseDSN(envService *env.EnvService) string {
	if dsn := envService.Get("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		envService.MustGet("DB_USER"),
		envService.MustGet("DB_PASSWORD"),
		envService.GetDefault("DB_HOST", "localhost"),
		envService.GetDefault("DB_PORT", "5432"),
		envService.MustGet("DB_NAME"),
	)
}
