package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shapedtime/reelbox/internal/api"
	"github.com/shapedtime/reelbox/internal/auth"
	"github.com/shapedtime/reelbox/internal/config"
	"github.com/shapedtime/reelbox/internal/handle"
	"github.com/shapedtime/reelbox/internal/media"
	"github.com/shapedtime/reelbox/internal/metrics"
	"github.com/shapedtime/reelbox/internal/playback"
	"github.com/shapedtime/reelbox/internal/source"
	"github.com/shapedtime/reelbox/internal/subtitle"
	"github.com/shapedtime/reelbox/internal/webdav"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "reelbox",
		Usage: "browse and play a folder of local videos with subtitles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
				EnvVars: []string{"REELBOX_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "folder",
				Aliases: []string{"f"},
				Usage:   "folder to load at startup (overrides library.folder)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("reelbox failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if folder := c.String("folder"); folder != "" {
		cfg.Library.Folder = folder
	}

	closeLog := setupLogging(cfg.Log, cfg.SlogLevel())
	defer closeLog()

	slog.Info("Starting reelbox", "config", c.String("config"))

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	spool := source.NewSpool(cfg.Library.SpoolDir)
	if err := spool.Clean(); err != nil {
		slog.Warn("Failed to clean spool dir", "dir", cfg.Library.SpoolDir, "error", err)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Core components
	registry := handle.NewRegistry(m)
	manager := media.NewManager(registry, m)
	controller := playback.NewController(manager, registry, playback.Options{
		DecodeTimeout: cfg.DecodeTimeout(),
		Decoder:       subtitle.NewDecoder(cfg.Playback.MaxSubtitleBytes),
		Metrics:       m,
	})
	defer controller.Shutdown()

	reg.MustRegister(metrics.NewMediaCollector(controller))

	if cfg.Library.Folder != "" {
		files, err := source.ReadDir(cfg.Library.Folder)
		if err != nil {
			return fmt.Errorf("failed to load folder: %w", err)
		}
		controller.LoadFolder(files)
	}

	auth.CheckConfig(cfg.Server.Auth)

	// Servers
	apiServer := api.NewServer(controller, registry, spool, cfg.MaxUploadBytes())
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Range"},
		ExposedHeaders: []string{"Content-Length", "Content-Range", "Accept-Ranges"},
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: corsHandler.Handler(auth.Wrap(apiServer.Handler(), cfg.Server.Auth)),
	}

	var webdavHTTPServer *http.Server
	if cfg.Server.WebDAVPort > 0 {
		webdavServer := webdav.NewServer(manager)
		webdavHTTPServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.WebDAVPort),
			Handler: auth.Wrap(webdavServer.Handler(), cfg.Server.Auth),
		}
	}

	var metricsServer *metrics.Server
	if cfg.Server.MetricsPort > 0 {
		metricsServer = metrics.NewServer(cfg.Server.MetricsPort, reg)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting REST API server", "port", cfg.Server.HTTPPort)
		return listen(httpServer, "REST API")
	})

	if webdavHTTPServer != nil {
		g.Go(func() error {
			slog.Info("Starting WebDAV server", "port", cfg.Server.WebDAVPort)
			return listen(webdavHTTPServer, "WebDAV")
		})
	}

	if metricsServer != nil {
		g.Go(metricsServer.Start)
	}

	slog.Info("reelbox is ready",
		"api_url", fmt.Sprintf("http://localhost:%d/api", cfg.Server.HTTPPort),
		"webdav_enabled", webdavHTTPServer != nil,
		"metrics_enabled", metricsServer != nil,
	)

	// Shut every server down once a signal arrives or one of them fails.
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("REST API server shutdown error", "error", err)
		}
		if webdavHTTPServer != nil {
			if err := webdavHTTPServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("WebDAV server shutdown error", "error", err)
			}
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("Metrics server shutdown error", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("reelbox stopped")
	return nil
}

func listen(srv *http.Server, name string) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}

// setupLogging installs the default slog logger. When cfg.File is set, output
// goes to a size-rotated file instead of stdout.
func setupLogging(cfg config.LogConfig, level slog.Level) func() {
	var out io.Writer = os.Stdout
	closer := func() {}

	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = lj
		closer = func() { lj.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return closer
}
