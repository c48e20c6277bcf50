package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/rudderlabs/rudder-purifier/cmd/purifier/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// RSERVER_ prefixed variables of a local .env file feed the config
	_ = godotenv.Load()

	app := &cli.App{
		Name:     "purifier",
		Usage:    "resolve the external dependencies of CREATE SOURCE statements",
		Commands: commands.DefaultList,
	}
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
