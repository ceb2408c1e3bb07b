// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/edsonmartins/voxvault/internal/bridge"
	"github.com/edsonmartins/voxvault/internal/broadcast"
	"github.com/edsonmartins/voxvault/internal/config"
	"github.com/edsonmartins/voxvault/internal/constants"
	"github.com/edsonmartins/voxvault/internal/handlers"
	"github.com/edsonmartins/voxvault/internal/merge"
	"github.com/edsonmartins/voxvault/internal/minutes"
	"github.com/edsonmartins/voxvault/internal/pipeline"
	"github.com/edsonmartins/voxvault/internal/session"
	"github.com/edsonmartins/voxvault/internal/store"
	"github.com/edsonmartins/voxvault/internal/translation"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("VOXVAULT_LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	snap := cfg.Settings.Snapshot()
	slog.Info("starting voxvault orchestrator",
		"asr_url", cfg.ASRWebSocketURL,
		"api_addr", net.JoinHostPort(cfg.APIHost, cfg.APIPort),
		"translation_mode", snap.Mode,
	)

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		slog.Error("failed to set up session store", "error", err)
		os.Exit(1)
	}
	archive := store.NewArchive(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	sessions := session.NewManager(fileStore)
	broadcaster := broadcast.New(constants.SubscriberQueueSize)
	backend := translation.New(snap)

	asr := bridge.NewClient(cfg.ASRWebSocketURL)
	coord := pipeline.NewCoordinator(
		asr.Fragments(),
		merge.NewBuffer(cfg.MergeTimeout, true),
		broadcaster,
		sessions,
		cfg.Settings,
		backend,
		cfg.BatchDelay,
	)

	h := &handlers.Handler{
		Broadcaster: broadcaster,
		Sessions:    sessions,
		Pipeline:    coord,
		Settings:    cfg.Settings,
		Minutes:     minutes.NewGenerator(coord.Backend),
		Archive:     archive,
		Bridge:      asr,
		MinutesDir:  filepath.Join(cfg.DataDir, "minutes"),
		ASRURL:      cfg.ASRWebSocketURL,
		DataDir:     cfg.DataDir,
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// No WriteTimeout: the SSE stream holds its response open for the
	// lifetime of the subscriber.
	srv := &http.Server{
		Addr:        net.JoinHostPort(cfg.APIHost, cfg.APIPort),
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		asr.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		coord.Run(ctx)
	}()

	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	// Closing the bridge unblocks its pending read; the coordinator
	// drains the merge buffer and debouncer on cancellation.
	asr.Close()
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
