// Package main is the entry point for the BookNest API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"booknest/internal/config"
	"booknest/internal/genai"
	"booknest/internal/handler"
	"booknest/internal/middleware"
	"booknest/internal/openlibrary"
	"booknest/internal/repo"
	"booknest/internal/service"
)

// maxBodyBytes caps request bodies; the largest legitimate payload is one
// book record, so 1 MiB leaves generous headroom.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Catalog store ----------------------------------------------------
	// The whole catalog is loaded up front; a missing file starts empty and
	// malformed records are skipped with warnings, never a startup failure.
	catalog := repo.NewFileRepo(cfg.DataFile, logger)
	if err := catalog.Load(context.Background()); err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	library := service.NewLibraryService(catalog)
	stats := service.NewStatsService(catalog)

	var assist *service.AssistService
	if cfg.GeminiAPIKey != "" {
		assist = service.NewAssistService(genai.NewClient("", cfg.GeminiAPIKey, cfg.GeminiModel))
		slog.Info("AI assistant enabled", "model", cfg.GeminiModel)
	} else {
		assist = service.NewAssistService(nil)
		slog.Info("AI assistant disabled: GEMINI_API_KEY not set")
	}

	importer := service.NewImportService(
		openlibrary.NewClient(cfg.OpenLibraryURL, "booknest/1.0"),
		library,
	)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID before the logger so every log line
	// carries a trace ID; Recoverer last so panics become 500s.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))
	r.Use(chimiddleware.Recoverer)

	srv := handler.NewServer(library, stats, importer, assist)
	srv.Routes(r)

	// --- HTTP server ------------------------------------------------------
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // AI endpoints wait on the collaborator
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for an OS signal, then give in-flight
	// requests up to 15 seconds to complete.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpServer.Addr, "data_file", cfg.DataFile)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
