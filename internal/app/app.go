package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/sip/internal/config"
	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/httpserver"
	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/pager"
	"github.com/MrSnakeDoc/sip/internal/realtime"
	"github.com/MrSnakeDoc/sip/internal/render"
	"github.com/MrSnakeDoc/sip/internal/scheduler"
	"github.com/MrSnakeDoc/sip/internal/sources/catalog"
	"github.com/MrSnakeDoc/sip/internal/store"
	"github.com/MrSnakeDoc/sip/internal/tracker"
	"github.com/MrSnakeDoc/sip/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	storage  *storage
	tracker  *tracker.Tracker
	midnight *scheduler.MidnightChecker
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the storage backend early - fail fast if unavailable
	st, err := openStorage(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s storage: %v", cfg.StoreBackend, err)
		os.Exit(1)
	}

	drinks := loadCatalog(cfg.DrinkCatalog, loggerClient)

	stateStore := store.NewStateStore(st.kv, cfg.StorageKey, loggerClient)
	tr := tracker.New(context.Background(), stateStore, loggerClient,
		tracker.WithLocation(cfg.Location))

	hub := realtime.NewHub(loggerClient)

	// Every effective mutation re-renders all connected clients.
	broadcast := func(s domain.State) {
		v := render.Project(s, drinks, pager.Frame{}, tr.Now())
		hub.Broadcast(realtime.StateMessage(v, false))
	}
	tr.Subscribe(broadcast)

	// A rollover already broadcasts through the listener; otherwise
	// still push a render so clients pick up the new date.
	midnight := scheduler.NewMidnightChecker(tr, loggerClient, cfg.MidnightSkew, func(changed bool) {
		if !changed {
			broadcast(tr.Snapshot())
		}
	})

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		CORSOrigins:  cfg.CORSOrigins,
		RateBurst:    cfg.RateBurst,
		RatePerMin:   cfg.RatePerMin,
		Tracker:      tr,
		Store:        st.kv,
		Catalog:      drinks,
		Hub:          hub,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   server,
		storage:  st,
		tracker:  tr,
		midnight: midnight,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting sip v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("sip %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Apply a rollover that happened while the process was down
	if changed, err := a.tracker.ResetIfNeeded(ctx); err != nil {
		a.logger.Warn("startup rollover not persisted", logger.Error(err))
	} else if changed {
		a.logger.Info("entries from a previous day cleared on startup",
			logger.String("day", a.tracker.Today()))
	}

	if err := a.midnight.Start(ctx); err != nil {
		return fmt.Errorf("failed to start midnight checker: %w", err)
	}
	a.logger.Info("midnight checker started",
		logger.Time("next_check", a.midnight.Next()),
		logger.String("timezone", a.cfg.Location.String()))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.midnight.Stop()
		a.storage.close(a.logger)
		return err
	}

	a.midnight.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.storage.close(a.logger)

	a.logger.Info("✅ sip stopped cleanly")
	return nil
}

// loadCatalog reads the optional catalog file, falling back to the
// built-in drink types.
func loadCatalog(path string, log logger.Logger) []domain.DrinkType {
	if path == "" {
		return domain.DefaultCatalog()
	}
	drinks, err := catalog.NewLoader(path).Load()
	if err != nil {
		log.Warn("invalid drink catalog, using built-in types",
			logger.String("file", path), logger.Error(err))
		return domain.DefaultCatalog()
	}
	log.Info("drink catalog loaded",
		logger.String("file", path), logger.Int("types", len(drinks)))
	return drinks
}
