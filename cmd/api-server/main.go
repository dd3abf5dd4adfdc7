package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"reviewhub/internal/bootstrap"
	"reviewhub/internal/feed"
	"reviewhub/internal/grpcserver"
	"reviewhub/internal/server"
	"reviewhub/pkg/utils"
)

func main() {
	cfg, err := utils.Load()
	if err != nil {
		utils.NewLogger(os.Stderr, "info").Error("load config", "err", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(os.Stderr, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	backend, err := bootstrap.OpenStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("open review store", "err", err)
		os.Exit(1)
	}
	defer backend.Close()

	hub := feed.NewHub(logger)

	handler := server.New(server.Deps{
		Store:       backend.Store,
		Hub:         hub,
		Logger:      logger,
		Checks:      backend.Checks,
		CORSOrigins: cfg.CORSOrigins,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// gRPC shares the store and the feed hub, so creates from either
	// surface reach websocket clients.
	grpcSrv := grpc.NewServer()
	grpcserver.Register(grpcSrv, grpcserver.NewServer(backend.Store, hub, logger))

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Error("grpc listen", "addr", cfg.GRPCAddr, "err", err)
			os.Exit(1)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- err
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP API server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}

	logger.Info("shutting down servers")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	hub.Close()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}
	grpcSrv.GracefulStop()

	wg.Wait()
	logger.Info("servers stopped")
}
