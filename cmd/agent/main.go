package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	printingapp "github.com/erp/printagent/internal/application/printing"
	"github.com/erp/printagent/internal/domain/printing"
	"github.com/erp/printagent/internal/infrastructure/config"
	"github.com/erp/printagent/internal/infrastructure/logger"
	"github.com/erp/printagent/internal/infrastructure/persistence"
	infra "github.com/erp/printagent/internal/infrastructure/printing"
	"github.com/erp/printagent/internal/infrastructure/update"
	"github.com/erp/printagent/internal/interfaces/http/handler"
	"github.com/erp/printagent/internal/interfaces/http/middleware"
	"github.com/erp/printagent/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config.toml (default: ./config.toml or next to the executable)")
	flag.Parse()

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting print agent",
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("addr", cfg.Addr()),
		zap.String("strategy", cfg.Print.Strategy.String()),
		zap.Bool("native_printing", infra.NativePrintingSupported()),
	)

	// Job journal. A journal that cannot be opened is skipped; printing works without it.
	var journal printing.PrintJobRepository
	if cfg.Journal.Enabled {
		db, err := persistence.NewDatabase(&persistence.DatabaseConfig{
			Path:     cfg.Journal.Path,
			LogLevel: logger.GormLevel(cfg.Log.Level),
			Logger:   log,
		})
		if err != nil {
			log.Warn("Print journal unavailable", zap.String("path", cfg.Journal.Path), zap.Error(err))
		} else {
			defer func() {
				if err := db.Close(); err != nil {
					log.Warn("Failed to close print journal", zap.Error(err))
				}
			}()
			journal = persistence.NewGormPrintJobRepository(db.DB)
		}
	}

	// Printing components
	runner := infra.NewExecRunner()
	fontSpec := cfg.Print.FontSpec()
	layout := cfg.Print.Layout()

	deps := printingapp.PrintServiceDeps{
		Directory: infra.NewDirectory(&infra.DirectoryConfig{
			Runner:          runner,
			PowerShellPath:  cfg.Print.PowerShellPath,
			VirtualPrinters: cfg.Print.VirtualPrinters,
			Logger:          log,
		}),
		Rasterizer: infra.NewRasterizer(&infra.RasterizerConfig{
			DocName: cfg.Print.DocName,
			Font:    fontSpec,
			Layout:  layout,
			Logger:  log,
		}),
		Spooler: infra.NewSpooler(&infra.SpoolConfig{
			Runner:         runner,
			PowerShellPath: cfg.Print.PowerShellPath,
			TempDir:        cfg.Print.TempDir,
			Logger:         log,
		}),
		Previewer: infra.NewPreviewer(&infra.PreviewConfig{
			Font:   fontSpec,
			Layout: layout,
			Logger: log,
		}),
		Journal: journal,
	}

	if cfg.PDF.Enabled {
		pdfRenderer := infra.NewTicketPDFRenderer(&infra.PDFConfig{
			Timeout:   cfg.PDF.Timeout,
			RemoteURL: cfg.PDF.RemoteURL,
			NoSandbox: cfg.PDF.NoSandbox,
			Logger:    log,
		})
		defer func() {
			if err := pdfRenderer.Close(); err != nil {
				log.Warn("Failed to close PDF renderer", zap.Error(err))
			}
		}()
		deps.PDF = pdfRenderer
	}

	printService := printingapp.NewPrintService(deps, printingapp.PrintServiceConfig{
		DefaultStrategy:   cfg.Print.Strategy,
		SpoolUseCRLF:      cfg.Print.SpoolUseCRLF,
		CommandTimeout:    cfg.Print.CommandTimeout,
		JournalMaxEntries: cfg.Journal.MaxEntries,
	}, log)

	// Update collaborator
	checker := update.NewChecker(&update.CheckerConfig{
		ManifestURL:    cfg.Update.ManifestURL,
		CurrentVersion: cfg.App.Version,
		Timeout:        cfg.Update.Timeout,
		Logger:         log,
	})
	installer := update.NewInstaller(&update.InstallerConfig{
		TempDir: cfg.Print.TempDir,
		Logger:  log,
	})

	// The installer replaces this executable; leave once it is running
	quit := make(chan os.Signal, 1)
	exitForUpdate := func() {
		select {
		case quit <- syscall.SIGTERM:
		default:
		}
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. CORS - Allow the UI shell origin
	// 5. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Without a manifest URL the checker always reports no update
	updateHandler := handler.NewUpdateHandler(checker, installer, exitForUpdate)
	if !checker.Enabled() {
		log.Info("Update checks disabled, no manifest URL configured")
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.PrintRoutes(handler.NewPrintHandler(printService)))
	r.Register(handler.SystemRoutes(handler.NewSystemHandler(cfg.App.Name, cfg.App.Version), updateHandler))
	r.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down server...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
