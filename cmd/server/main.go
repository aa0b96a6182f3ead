package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnightlabs/goodnight/internal/buildinfo"
	"github.com/goodnightlabs/goodnight/internal/server"
	"github.com/goodnightlabs/goodnight/internal/server/config"
	"github.com/goodnightlabs/goodnight/internal/telemetry"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		OTLPEndpoint: cfg.OTLPEndpoint,
		Insecure:     true,
		ServiceName:  "goodnight-server",
	})
	if err != nil {
		log.Fatalf("telemetry setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
