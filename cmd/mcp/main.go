package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/insurance-consult-kit/internal/adapters/mcp"
	"github.com/kirillkom/insurance-consult-kit/internal/bootstrap"
	"github.com/kirillkom/insurance-consult-kit/internal/config"
	"github.com/kirillkom/insurance-consult-kit/internal/core/convention"
	"github.com/kirillkom/insurance-consult-kit/internal/observability/logging"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	// stdout carries the protocol.
	logger := logging.New(os.Stderr, "consult-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	tools := mcpadapter.New(app.RiskUC, app.RemodelUC, convention.DeriveOptions{
		ShareRateWeighting: cfg.ConventionShareRateWeighting,
	})
	if err := server.ServeStdio(tools.MCPServer("insurance-consult-kit", version)); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
