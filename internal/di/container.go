// Package di assembles the application: configuration in, a ready
// DocumentProcessor out.
package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/input"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/infrastructure/store/postgres"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/process"
)

type Config struct {
	DatabaseDSN string

	ERPBaseURL    string
	ERPMenuURL    string
	ERPUsername   string
	ERPPassword   string
	DefaultBranch string

	BrowserHeadless bool
	SubmitEnabled   bool
	ScreenshotDir   string
	FuzzyThreshold  float64
}

type Container struct {
	Store     output.QueueStore
	Processor input.DocumentProcessor
	log       *zap.Logger
}

func NewContainer(ctx context.Context, cfg Config, log *zap.Logger) (*Container, error) {
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	if cfg.ERPBaseURL == "" {
		return nil, fmt.Errorf("ERP base URL is required")
	}

	store, err := postgres.New(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}

	runner := &erpRunner{cfg: cfg, log: log}
	processor := process.New(store, runner, log)

	return &Container{
		Store:     store,
		Processor: processor,
		log:       log,
	}, nil
}

func (c *Container) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}
