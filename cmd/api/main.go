package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-ingest/internal/aws"
	"github.com/imrishuroy/go-sales-ingest/internal/config"
	"github.com/imrishuroy/go-sales-ingest/internal/logger"
	"github.com/imrishuroy/go-sales-ingest/internal/metrics"
	"github.com/imrishuroy/go-sales-ingest/internal/server"
	"github.com/imrishuroy/go-sales-ingest/internal/warehouse"
)

func main() {
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", ".env", "Path to configuration file")
	flag.Parse()
	return *c
}

func run(ctx context.Context, cfg config.Config) error {
	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	srv, cleanup, err := build(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer cleanup()

	// if RUN_LOCAL is true, run a local HTTP server for development.
	if cfg.RunLocal {
		return srv.Run(ctx)
	}

	// lambda adapter
	adapter := ginadapter.New(srv.Handler())

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
	return nil
}

// build opens the destination and optional AWS collaborators. cleanup
// releases whatever was opened.
func build(ctx context.Context, cfg config.Config, lg *zap.SugaredLogger) (*server.Server, func(), error) {
	var clients *aws.AWSClients
	if cfg.NeedsAWS() {
		var err error
		if clients, err = aws.NewAWSClients(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to init aws clients: %w", err)
		}
	}

	dest, err := warehouse.Open(ctx, warehouse.Options{
		Driver:      cfg.Driver,
		Table:       cfg.Table,
		Project:     cfg.GCPProject,
		DatabaseURL: cfg.DatabaseURL,
		Timeout:     cfg.InsertTimeout,
		AWS:         clients,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s warehouse: %w", cfg.Driver, err)
	}
	lg.Infow("warehouse ready", "driver", cfg.Driver, "store", dest.Name, "table", cfg.Table)

	deps := server.Deps{Destination: dest, Logger: lg}
	if cfg.MetricsNamespace != "" {
		deps.Metrics = metrics.NewCloudWatch(clients.CloudWatch, cfg.MetricsNamespace)
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		dest.Close()
		return nil, nil, err
	}
	return srv, dest.Close, nil
}
