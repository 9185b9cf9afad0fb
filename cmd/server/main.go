package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"nexusdash/internal/api"
	"nexusdash/internal/config"
	"nexusdash/internal/logging"
	"nexusdash/pkg/nexusdash"
)

func main() {
	var dataDir string
	var port int
	var host string

	flag.StringVar(&dataDir, "data-dir", "", "Directory for storing logs and application data")
	flag.IntVar(&port, "port", 0, "Port to run the server on")
	flag.StringVar(&host, "host", "", "Host to bind the server to")
	flag.Parse()

	cfg, err := config.Load(host, port, dataDir)
	if err != nil {
		slog.Error("failed to resolve configuration", "err", err)
		os.Exit(1)
	}

	logger, writer, err := logging.NewLogger(cfg.LogDir())
	if err != nil {
		slog.Error("failed to initialize logger", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close log writer", "err", err)
		}
	}()

	core := nexusdash.New(nexusdash.Options{
		Logger: logger,
		GatewayOptions: nexusdash.GatewayOptions{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			ChatModel:      cfg.ChatModel,
			OptimizerModel: cfg.OptimizerModel,
			Logger:         logger,
		},
	})

	if cfg.APIKey == "" {
		// Not fatal: the gateway reports the missing credential on first use.
		logger.Warn("no AI API key configured; gateway calls will fail until one is set",
			"env", "NEXUS_DASH_API_KEY")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	handler := middleware.Compress(5)(api.NewRouter(core))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", addr, "chat_model", cfg.ChatModel, "optimizer_model", cfg.OptimizerModel)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}
