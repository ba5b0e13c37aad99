// Command locus-server runs the HTTP query surface over an index built from
// the configured reference-data directory at startup, modeled on the
// teacher's root main.go retry/signal-handling shape.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/locus/api"
	"github.com/gilby125/locus/config"
	"github.com/gilby125/locus/ingest"
	"github.com/gilby125/locus/index"
	"github.com/gilby125/locus/pkg/buildinfo"
	"github.com/gilby125/locus/pkg/health"
	"github.com/gilby125/locus/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err) // can't use logger yet
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})

	logger.Info("starting locus server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"environment", cfg.Environment,
		"port", cfg.Port,
		"records_dir", cfg.ReferenceData.RecordsDir)

	idx := index.New()

	ctx := context.Background()
	report, err := ingest.Dir(ctx, cfg.ReferenceData.RecordsDir, idx)
	if err != nil {
		logger.Fatal(err, "failed to ingest reference data")
	}
	logger.Info("ingested reference records", "inserted", report.Inserted, "errors", len(report.Errors))

	if cfg.ReferenceData.LocodeTSVPath != "" {
		coordReport, err := ingest.LocodeTSV(cfg.ReferenceData.LocodeTSVPath, idx)
		if err != nil {
			logger.Fatal(err, "failed to ingest locode coordinates")
		}
		logger.Info("ingested locode coordinates", "updated", coordReport.Inserted, "errors", len(coordReport.Errors))
	}

	if err := idx.Finalize(); err != nil {
		logger.Fatal(err, "failed to finalize index")
	}
	logger.Info("index finalized", "entities", idx.EntityCount())

	healthChecker := health.NewHealthChecker(buildinfo.Version)
	healthChecker.AddChecker(&health.IndexChecker{Index: idx, Name: "index"})

	router := gin.New()
	api.RegisterRoutes(router, idx, healthChecker)

	addr := ":" + cfg.Port
	if cfg.HTTPBindAddr != "" {
		addr = cfg.HTTPBindAddr + ":" + cfg.Port
	}
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(err, "failed to start http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, starting graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal(err, "server forced to shutdown")
	}

	logger.Info("process exited gracefully")
}
