package main

import (
	"log/slog"
	"os"

	"quickfeedback/internal/app/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
