// Package app wires configuration, storage, clients, and services into a
// single application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clarityfi/clarity/internal/clients/riskdata"
	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/services/income"
	"github.com/clarityfi/clarity/internal/services/performance"
	"github.com/clarityfi/clarity/internal/services/planning"
	"github.com/clarityfi/clarity/internal/services/strategy"
	"github.com/clarityfi/clarity/internal/services/tax"
	"github.com/clarityfi/clarity/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config             *common.Config
	Logger             *common.Logger
	Storage            interfaces.StorageManager
	RiskClient         interfaces.RiskMetricsClient
	IncomeService      interfaces.IncomeService
	PerformanceService interfaces.PerformanceService
	StrategyService    interfaces.StrategyService
	TaxService         interfaces.TaxService
	PlanningService    interfaces.PlanningService
	StartupTime        time.Time

	schedulerCancel context.CancelFunc
	warmHubsCancel  context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and the five hub services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load configuration - check provided path, CLARITY_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("CLARITY_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "clarity.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/clarity.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Risk client is optional: without an API key the strategy hub serves
	// fallback risk metrics.
	var riskClient interfaces.RiskMetricsClient
	if config.Clients.RiskData.APIKey != "" {
		riskClient = riskdata.NewClient(config.Clients.RiskData.BaseURL, config.Clients.RiskData.APIKey,
			riskdata.WithLogger(logger),
			riskdata.WithRateLimit(config.Clients.RiskData.RateLimit),
			riskdata.WithTimeout(config.Clients.RiskData.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("Risk data API key not configured - risk metrics will use fallback values")
	}

	a := &App{
		Config:             config,
		Logger:             logger,
		Storage:            storageManager,
		RiskClient:         riskClient,
		IncomeService:      income.NewService(storageManager, config, logger),
		PerformanceService: performance.NewService(storageManager, config, logger),
		StrategyService:    strategy.NewService(storageManager, riskClient, config, logger),
		TaxService:         tax.NewService(storageManager, config, logger),
		PlanningService:    planning.NewService(storageManager, config, logger),
		StartupTime:        startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, cancel hub warming, close storage.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.warmHubsCancel != nil {
		a.warmHubsCancel()
		a.warmHubsCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartWarmHubs launches the background hub warming goroutine.
func (a *App) StartWarmHubs() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	a.warmHubsCancel = warmCancel
	go func() {
		defer warmCancel()
		warmHubs(warmCtx, a)
	}()
}

// StartHubScheduler launches the background hub refresh goroutine.
// No-op when the refresh interval is zero.
func (a *App) StartHubScheduler() {
	interval := a.Config.Hubs.GetRefreshInterval()
	if interval <= 0 {
		a.Logger.Info().Msg("Hub scheduler: disabled")
		return
	}
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startHubScheduler(schedulerCtx, a, interval)
}
