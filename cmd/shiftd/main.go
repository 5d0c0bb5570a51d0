package main

import (
	"context"
	"errors"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"shift-metrics/internal/blob"
	"shift-metrics/internal/config"
	"shift-metrics/internal/logging"
	generate_excel "shift-metrics/internal/service/generate-excel"
	"shift-metrics/internal/service/ingest"
	"shift-metrics/internal/storage/sqlstore"
	"shift-metrics/internal/uploader"
	"syscall"
	"time"
)

func main() {
	cfg := config.MustConfig()

	log := logging.Setup(cfg.Env, cfg.ErrorLog)

	if err := run(cfg, log); err != nil {
		log.Error("shiftd stopped", logging.Err(err))
		os.Exit(1)
	}

	log.Info("shiftd stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	storage, err := sqlstore.New(*cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	blobs, err := blob.NewLocal(cfg.Blob.Root)
	if err != nil {
		return err
	}

	pipeline := ingest.New(blobs, storage, ingest.Options{
		Log:               log,
		Location:          loc,
		DefaultShiftTypes: cfg.DefaultShiftTypes,
		ArchivePrefix:     cfg.ArchivePrefix,
	})
	trigger := ingest.NewTrigger(cfg.ImportPrefix, pipeline, log)

	watcher, err := blobs.Watch(cfg.ImportPrefix, log)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	genService := generate_excel.NewGenerateService(storage)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, storage, blobs, pipeline, genService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		backlog, err := blobs.List(gctx, cfg.ImportPrefix)
		if err != nil {
			log.Warn("cannot list import backlog", logging.Err(err))
		} else if len(backlog) > 0 {
			done := trigger.Replay(gctx, backlog)
			log.Info("import backlog processed", slog.Int("objects", len(backlog)), slog.Int("done", done))
		}
		return trigger.Serve(gctx, watcher.Events())
	})

	if cfg.WatchFolder != "" {
		up := &uploader.Uploader{
			Dir:    cfg.WatchFolder,
			Prefix: cfg.ImportPrefix,
			Blobs:  blobs,
			Log:    log,
			Quiet:  time.Second,
		}
		g.Go(func() error {
			return up.Watch(gctx)
		})
	}

	return g.Wait()
}
