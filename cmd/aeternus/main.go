// Command aeternus runs a living-world MUD server.
//
//	aeternus -config aeternus.json [-loglevel debug] [-logformat text]
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pixil98/go-aeternus/cmd/aeternus/command"
	"github.com/pixil98/go-service"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		slog.Error("aeternus failed to start", "version", version, "error", err)
		return 1
	}

	slog.InfoContext(ctx, "aeternus world opening", "version", version)
	if err := app.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "aeternus stopped with an error", "error", err)
		return 1
	}

	slog.InfoContext(ctx, "aeternus world closed")
	return 0
}
