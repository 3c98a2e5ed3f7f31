package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kirillkom/insurance-consult-kit/internal/adapters/cli"
	"github.com/kirillkom/insurance-consult-kit/internal/bootstrap"
	"github.com/kirillkom/insurance-consult-kit/internal/config"
	"github.com/kirillkom/insurance-consult-kit/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, "consultctl", cfg.LogLevel)

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(cli.Deps{
		Convention: app.ConventionUC,
		Coverage:   app.CoverageUC,
		Risk:       app.RiskUC,
		Outputs:    app.Outputs,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
