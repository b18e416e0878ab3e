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

	"entry-optimizer/internal/api"
	"entry-optimizer/internal/config"
	"entry-optimizer/internal/data"
	"entry-optimizer/internal/logger"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/solver"

	"github.com/gin-gonic/gin"
)

func main() {
	// CONFIG_FILE is optional; without it the server uses the defaults plus
	// environment overrides.
	cfg, err := config.Resolve(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	server := config.LoadServer()
	log := logger.New(cfg.Log.Level, cfg.Log.Format).WithField("service", "entry-api")

	s, err := solver.New(cfg.Solver.ToSpec(), log)
	if err != nil {
		log.WithError(err).Error("Failed to create solver")
		os.Exit(1)
	}

	series := []model.Series{data.DefaultSeries()}
	if cfg.Watchlist != "" {
		loaded, err := cfg.WatchlistSeries()
		if err != nil {
			log.WithError(err).Error("Failed to load watchlist")
			os.Exit(1)
		}
		series = append(series, loaded...)
	}

	if server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Solver:         s,
		Options:        cfg.Solver.ToOptions(),
		Series:         series,
		AllowedOrigins: server.CORSAllowedOrigins,
		BatchLimit:     server.BatchConcurrency,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr":   srv.Addr,
			"solver": s.Name(),
			"series": len(series),
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
