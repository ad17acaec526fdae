package main

import (
	"context"
	"flag"
	"os"

	"github.com/Kevinm360/Sankey-Diagram/pkg/common/config"
	"github.com/Kevinm360/Sankey-Diagram/pkg/common/logger"
	"github.com/Kevinm360/Sankey-Diagram/pkg/pipeline"
)

func main() {
	if os.Getenv("LOG_FORMAT") == "" {
		os.Setenv("LOG_FORMAT", "text")
	}
	logger.Init()
	cfg := config.Load()

	inputPath := flag.String("input", cfg.InputPath, "path to the conditions CSV file")
	outputPath := flag.String("output", cfg.OutputPath, "path for the rendered HTML diagram")
	profilePath := flag.String("profile", cfg.ProfilePath, "optional YAML run profile")
	title := flag.String("title", "", "diagram title override")
	flag.Parse()

	runCfg, err := pipeline.LoadProfile(*profilePath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load run profile")
	}
	if *inputPath != "" {
		runCfg.InputPath = *inputPath
	}
	if *outputPath != "" {
		runCfg.OutputPath = *outputPath
	}
	if *title != "" {
		runCfg.Title = *title
	}

	service := pipeline.NewService()
	report, err := service.Run(context.Background(), runCfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Pipeline run failed")
	}

	logger.Log.WithFields(map[string]interface{}{
		"run_id":      report.RunID,
		"records":     report.Records,
		"transitions": report.Transitions,
		"labels":      report.Labels,
		"links":       report.Links,
		"artifact":    report.ArtifactPath,
		"duration":    report.Duration.String(),
	}).Info("Sankey diagram written")
}
