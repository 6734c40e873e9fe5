package cli

import (
	"fmt"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/cache"
	"github.com/klutchshots/klutch/pkg/config"
	"github.com/klutchshots/klutch/pkg/download"
	"github.com/klutchshots/klutch/pkg/fetch"
	"github.com/klutchshots/klutch/pkg/http"
	"github.com/klutchshots/klutch/pkg/orchestrator"
	"github.com/klutchshots/klutch/pkg/repository"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// services bundles the collaborators a command needs.
type services struct {
	cfg   *config.Config
	store *cache.FileStore
	fetch *fetch.Client
	repo  *repository.VideoRepository
	dl    *download.Coordinator
	orch  *orchestrator.Orchestrator
}

// loadConfig loads the configuration, applies CLI overrides and configures logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(cfg.Settings.OutputFormat))
	if err := logger.SetLogFile(cfg.Settings.LogFile); err != nil {
		logger.Warn("Log file disabled", logger.Fields{"path": cfg.Settings.LogFile, "error": err.Error()})
	}
	return cfg, nil
}

// loadServices wires the content-access layer from the configuration.
func loadServices() (*services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client := http.NewClient(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
	store := cache.NewFileStore(cfg.GetCacheDir())
	fc := fetch.NewClient(client, store, fetch.Options{
		BaseURL:     cfg.Settings.BaseURL,
		ListingPath: cfg.Settings.ListingPath,
	})
	repo := repository.NewVideoRepository(fc)
	dl := download.NewCoordinator(download.NewHTTPSource(client), download.Options{
		Dir:               cfg.GetDownloadDir(),
		InactivityTimeout: cfg.Settings.InactivityTimeout,
	})

	return &services{
		cfg:   cfg,
		store: store,
		fetch: fc,
		repo:  repo,
		dl:    dl,
		orch:  &orchestrator.Orchestrator{Images: fc, Videos: repo, DL: dl},
	}, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// An empty path surfaces a descriptive error once the config is read.
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err.Error()})
		return ""
	}
	return defaultPath
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
