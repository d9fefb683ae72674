package main

import (
	"context"
	"fmt"
	"os"

	"fintrack/internal/cli"
	"fintrack/internal/commands"
	"fintrack/internal/importer"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	classifier, err := cli.LoadClassifier(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	exporter, err := cli.NewExporter(context.Background(), cfg, classifier.Table(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	svc := services.NewDashboardService(importer.DefaultRegistry(cfg.CSVPreambleLines), exporter, cli.DefaultTarget(cfg), logger)
	root := commands.NewRootCommand(commands.Deps{Service: svc, Classifier: classifier, Logger: logger})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
