package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/fgodoybr/frotacontrol/internal/client/cli"
	"github.com/fgodoybr/frotacontrol/internal/client/config"
	"github.com/fgodoybr/frotacontrol/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
