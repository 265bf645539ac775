package main

import (
	"chat-live/auth"
	"chat-live/infrastructure/grpc/server"
	"chat-live/infrastructure/httpapi"
	"chat-live/infrastructure/ws"
	"chat-live/internal"
	"chat-live/observability"
	"chat-live/proto/live"
	"chat-live/repositories"
	"chat-live/runtime"
	"chat-live/runtime/workers"
	"chat-live/services"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Every defer runs before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB): identity directory and membership read model
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Live distribution core
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewLiveMetrics(promRegistry)

	users := repositories.NewUserRepository(db)
	memberships := repositories.NewMembershipRepository(db, log)
	registry := runtime.NewRegistry(log, users, runtime.NewSequencer(), metrics)
	broker := runtime.NewBroker(log, workers.NewSupervisor(log, config.RestartInterval),
		registry, config.HeartbeatInterval)
	issuer := auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration)

	// Producer side: commits to the read model, then publishes
	notifier := services.NewNotifier(log, services.NewPublisher(log, registry), memberships)
	chatService := services.NewChatService(log, users, repositories.NewChannelRepository(db), memberships, notifier)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = broker.Start(ctx); err != nil {
		return fmt.Errorf("broker failed to start: %w", err)
	}
	defer broker.Stop()

	// 5. gRPC Server Setup
	listener, err := net.Listen("tcp", config.GrpcAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.GrpcAddress(), err)
	}
	grpcServer := grpc.NewServer(grpc.StreamInterceptor(issuer.StreamInterceptor()))
	live.RegisterLiveServiceServer(grpcServer, server.NewLiveServer(log, registry, config.ConnectionBufferSize))

	// 6. HTTP Server Setup (WebSocket + operations)
	wsHandler := ws.NewHandler(log, registry, issuer, config.ConnectionBufferSize, config.WriteTimeout)
	httpServer := &http.Server{
		Addr:              config.HttpAddress(),
		Handler:           httpapi.NewRouter(log, wsHandler, chatService, registry, promRegistry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting gRPC server", "address", config.GrpcAddress(), "at", time.Now().UTC())
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		log.Info("Starting HTTP server", "address", config.HttpAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup: stop accepting, close live handles, then drain gRPC streams
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	broker.Stop()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		log.Warn("gRPC graceful stop timed out, forcing")
		grpcServer.Stop()
	}
	log.Info("Program stopped cleanly")

	return nil
}
