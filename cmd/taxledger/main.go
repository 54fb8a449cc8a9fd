package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/roach88/taxledger/internal/cli"
	"github.com/roach88/taxledger/internal/config"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := cli.NewRootCommand(cfg)
	cmd.SetContext(ctx)

	code := cli.Execute(cmd, os.Stderr)
	stop()
	os.Exit(code)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found; relying on existing environment")
	}
}
