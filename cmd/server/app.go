package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"keepsake-backend/internal/ai"
	"keepsake-backend/internal/capture"
	"keepsake-backend/internal/config"
	"keepsake-backend/internal/database"
	"keepsake-backend/internal/handlers"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/logging"
	"keepsake-backend/internal/notify"
	"keepsake-backend/internal/services"
	"keepsake-backend/internal/supabase"
	"keepsake-backend/internal/view"
)

const startupRetries = 3

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *supabase.DatabaseClient
	browser *capture.Browser

	pages         *services.PageService
	contributions *services.ContributionService
	keepsakes     *services.KeepsakeService
	ai            *services.AIService
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func connectDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*supabase.DatabaseClient, error) {
	var db *supabase.DatabaseClient
	err := database.RetryWithBackoff(func() error {
		var err error
		db, err = supabase.NewDatabaseClient(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("database not reachable yet", zap.Error(err))
		}
		return err
	}, startupRetries)
	return db, err
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	db, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}
	storage, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.ServiceKey(), cfg.SupabaseStorageBucket)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	realtime := supabase.NewRealtimeClient(cfg.SupabaseURL, cfg.ServiceKey(), logger)
	reactionStore := supabase.NewReactionStore(supabaseClient)
	mailer := notify.NewMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.Brand, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		db.Close()
		return nil, err
	}

	browser := capture.NewBrowser(capture.Options{
		DevToolsURL: cfg.ChromeDevToolsURL,
		Bin:         cfg.ChromeBin,
		Timeout:     cfg.CaptureTimeout,
		Logger:      logger,
	})
	exporter := keepsake.NewExporter(browser, keepsake.Config{
		Brand:    cfg.Brand,
		Geometry: cfg.Geometry,
		Logger:   logger,
	})

	var generator services.Generator
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewClient(ctx, ai.Config{
			APIKey:     cfg.GeminiAPIKey,
			TextModel:  cfg.GeminiTextModel,
			ImageModel: cfg.GeminiImageModel,
			Logger:     logger,
		})
		if err != nil {
			logger.Warn("AI features disabled", zap.Error(err))
		} else {
			generator = client
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, AI features disabled")
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		browser: browser,
		pages:   services.NewPageService(db, realtime, mailer, cfg.AppURL, logger),
		contributions: services.NewContributionService(services.ContributionServiceConfig{
			Pages:         db,
			Contributions: db,
			Reactions:     reactionStore,
			Blobs:         storage,
			Broadcaster:   realtime,
			Mailer:        mailer,
			AppURL:        cfg.AppURL,
			Logger:        logger,
		}),
		keepsakes: services.NewKeepsakeService(services.KeepsakeServiceConfig{
			Pages:         db,
			Contributions: db,
			Reactions:     reactionStore,
			Renderer:      renderer,
			Exporter:      exporter,
			Layout:        cfg.Layout,
			Brand:         cfg.Brand,
			Logger:        logger,
		}),
		ai: services.NewAIService(db, generator, storage, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.browser.Close(); err != nil {
		a.logger.Warn("failed to close browser", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
}

func migrate(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	migrator, err := database.NewMigrator(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	applied, err := migrator.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("migrations completed", zap.Strings("applied", applied))
	return nil
}

func runMigrate(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	return migrate(ctx, cfg, logger)
}

func runServer(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := migrate(ctx, cfg, logger); err != nil {
		logger.Warn("migration failed", zap.Error(err))
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	router := handlers.NewRouter(handlers.Dependencies{
		Config:        cfg,
		Health:        a.db,
		Pages:         a.pages,
		Contributions: a.contributions,
		Keepsakes:     a.keepsakes,
		AI:            a.ai,
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func runExport(ctx context.Context, slug, out string, force bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.keepsakes.ExportPDF(ctx, slug, services.ExportOptions{Force: force})
	if err != nil {
		return err
	}
	if out == "" {
		out = doc.Filename
	}
	if err := os.WriteFile(out, doc.Bytes, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Info("keepsake exported", zap.String("slug", slug), zap.String("file", out), zap.Int("bytes", len(doc.Bytes)))
	return nil
}
