package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jamesprial/arvores-brasileiras-api/internal/config"
	"github.com/jamesprial/arvores-brasileiras-api/internal/logging"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/router"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/server"
)

const (
	APP_NAME = "arvores-brasileiras-api"
	VERSION  = "2.0.0"
)

var (
	httpAddr = flag.String("http", "", "HTTP address to listen on (e.g., :8080). Overrides server.host/server.port")
	mcpMode  = flag.Bool("mcp", false, "Serve the MCP tools over stdio instead of HTTP")
	sseMode  = flag.Bool("sse", false, "Also expose MCP over SSE in HTTP mode")
	portFile = flag.String("portfile", "", "If set in HTTP mode, write the actual bound TCP port to this file")
)

func main() {
	flag.Parse()

	logLevel := logging.GetLogLevel()
	logger := logging.NewLogger(APP_NAME, logLevel)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("graceful shutdown complete")
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting arvores API",
		slog.String("version", VERSION),
		slog.String("log_level", logging.GetLogLevel().String()),
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration",
			slog.String("error", err.Error()),
		)
		return err
	}

	logger.Info("configuration loaded",
		slog.String("driver", cfg.Database.Driver),
		slog.Bool("seed", cfg.Database.Seed),
	)

	dbLogger := logger.With(slog.String("component", "database"))
	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, dbLogger, cfg.Database.MaxOpenConns)
	if err != nil {
		logger.Error("failed to initialize database",
			slog.String("error", err.Error()),
			slog.String("driver", cfg.Database.Driver),
		)
		return err
	}

	store := database.NewStore(db)
	if cfg.Database.Seed {
		if _, err := store.Seed(ctx); err != nil {
			_ = db.Close()
			return err
		}
	}

	srv := server.NewServer(store).WithLimits(server.Limits{
		DefaultPerPage: cfg.API.DefaultPerPage,
		MaxPerPage:     cfg.API.MaxPerPage,
	})

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    APP_NAME,
			Version: VERSION,
		},
		nil,
	)
	srv.RegisterTools(mcpServer)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan error, 1)
	var httpServer *http.Server

	if *mcpMode {
		startStdioServer(ctx, logger, mcpServer, done)
	} else {
		httpServer, err = startHTTPServer(logger, cfg, store, mcpServer, done)
		if err != nil {
			_ = srv.Shutdown(ctx)
			return err
		}
	}

	select {
	case err := <-done:
		if err != nil {
			shutdown(logger, cfg.Server.ShutdownTimeout, httpServer, srv)
			return fmt.Errorf("server stopped with error: %w", err)
		}
		logger.Info("server stopped cleanly")
	case sig := <-sigChan:
		logger.Info("received signal, shutting down gracefully",
			slog.String("signal", sig.String()),
		)
	}

	shutdown(logger, cfg.Server.ShutdownTimeout, httpServer, srv)
	return nil
}

func shutdown(logger *slog.Logger, timeout time.Duration, httpServer *http.Server, srv *server.Server) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if httpServer != nil {
		logger.Info("shutting down HTTP server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("closing database...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("database close error", slog.String("error", err.Error()))
	}
}

func startHTTPServer(logger *slog.Logger, cfg *config.Config, store *database.Store, mcpServer *mcp.Server, done chan<- error) (*http.Server, error) {
	routerCfg := &router.RouterConfig{
		Name:           APP_NAME,
		Version:        VERSION,
		Driver:         cfg.Database.Driver,
		DefaultPerPage: cfg.API.DefaultPerPage,
		MaxPerPage:     cfg.API.MaxPerPage,
		CORSOrigins:    cfg.API.CORSOrigins,
		EnableSSE:      *sseMode,
		EnableStream:   true,
	}
	handler := router.NewRouter(store, mcpServer, logger, routerCfg)

	addr := cfg.Server.Addr()
	if *httpAddr != "" {
		addr = *httpAddr
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("HTTP listen error: %w", err)
	}

	if *portFile != "" {
		tcpAddr := ln.Addr().(*net.TCPAddr)
		if err := os.WriteFile(*portFile, []byte(fmt.Sprintf("%d", tcpAddr.Port)), 0644); err != nil {
			logger.Warn("failed writing portfile", slog.String("error", err.Error()), slog.String("file", *portFile))
		} else {
			logger.Info("wrote port to file", slog.Int("port", tcpAddr.Port), slog.String("file", *portFile))
		}
	}

	go func() {
		logger.Info("starting HTTP server", slog.Bool("sse_enabled", *sseMode), slog.String("address", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- fmt.Errorf("HTTP server error: %w", err)
		} else {
			done <- nil
		}
	}()
	return httpServer, nil
}

func startStdioServer(ctx context.Context, logger *slog.Logger, mcpServer *mcp.Server, done chan<- error) {
	go func() {
		logger.Info("starting in stdio mode")
		if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
			done <- err
		} else {
			done <- nil
		}
	}()
}
