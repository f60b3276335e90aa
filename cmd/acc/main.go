package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cleared-dev/acc/internal/commands"
	"github.com/cleared-dev/acc/internal/config"
)

func main() {
	// Load .env for local overrides (a missing file is fine).
	_ = godotenv.Load()

	// Writes to a closed stdout fail with EPIPE instead of killing the process.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := commands.Run(ctx, os.Args[1:], os.Stdout, os.Stderr, config.LoadSettings())
	stop()

	os.Exit(code)
}
