package main

import (
	"context"
	"ctchen222/tictactoe-bot/internal/api/service"
	"ctchen222/tictactoe-bot/internal/bot"
	"ctchen222/tictactoe-bot/internal/chat"
	"ctchen222/tictactoe-bot/internal/config"
	"ctchen222/tictactoe-bot/internal/logger"
	"ctchen222/tictactoe-bot/internal/server"
	"ctchen222/tictactoe-bot/internal/session"
	"ctchen222/tictactoe-bot/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := config.MustLoad("config.yml")

	// Initialize telemetry before the logger so the slog bridge finds the log provider.
	shutdown, err := telemetry.InitOtel(ctx, conf.Otel)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(conf.LogLevel)

	metrics, err := telemetry.NewGameMetrics(otel.Meter("ctchen222/tictactoe-bot"))
	if err != nil {
		log.Fatalf("failed to create metrics: %v", err)
	}

	// Create the session store and its idle sweeper
	store := session.NewStore()
	go store.RunSweeper(ctx, conf.SessionIdleTimeout/2, conf.SessionIdleTimeout)

	// Create services
	handler := chat.NewHandler(store, &bot.BotMoveCalculator{}, metrics)
	chatService := service.NewChatService(conf.JWTSecret, conf.TokenTTL, handler)

	srv := server.NewServer(chatService)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    conf.HTTPAddr,
		Handler: otelhttp.NewHandler(srv.Engine(), "tictactoe-bot"),
	}

	go func() {
		slog.Info("http server started", "addr", conf.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}
