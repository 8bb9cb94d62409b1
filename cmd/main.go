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

	"github.com/gorilla/handlers"

	"student-manager/internal/config"
	"student-manager/internal/database"
	"student-manager/internal/handler"
	"student-manager/internal/service"
	"student-manager/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Pick the record store backend
	newStore := func(string) store.Store { return store.NewMemoryStore() }
	if cfg.StoreDriver == config.StoreSQLite {
		db, err := database.InitDB(cfg.SQLiteDSN)
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		newStore = func(sessionID string) store.Store { return store.NewGormStore(db, sessionID) }
	}

	// Initialize services
	sessionService := service.NewSessionService(newStore, cfg.DefaultLanguage, cfg.DefaultTheme, logger)
	exportService := service.NewExportService(logger)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService, exportService, logger)
	eventsHandler := handler.NewEventsHandler(sessionService, logger)

	r := handler.NewRouter(sessionHandler, eventsHandler, logger)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           cors(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped", "open_sessions", sessionService.SessionCount())
}
