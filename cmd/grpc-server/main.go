package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"reviewhub/internal/bootstrap"
	"reviewhub/internal/grpcserver"
	"reviewhub/pkg/utils"
)

// Standalone gRPC surface without the HTTP page or the websocket feed.
func main() {
	cfg, err := utils.Load()
	if err != nil {
		utils.NewLogger(os.Stderr, "info").Error("load config", "err", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	backend, err := bootstrap.OpenStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("open review store", "err", err)
		os.Exit(1)
	}
	defer backend.Close()

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("grpc listen failed", "addr", cfg.GRPCAddr, "err", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	grpcserver.Register(grpcServer, grpcserver.NewServer(backend.Store, nil, logger))

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutdown signal received", "signal", sig.String())
		grpcServer.GracefulStop()
	}()

	logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
	if err := grpcServer.Serve(listener); err != nil {
		logger.Error("grpc server stopped", "err", err)
		os.Exit(1)
	}
}
