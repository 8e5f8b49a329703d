package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jonathan/cv-templater/internal/config"
	"github.com/jonathan/cv-templater/internal/db"
	"github.com/jonathan/cv-templater/internal/generator"
	"github.com/jonathan/cv-templater/internal/logging"
	"github.com/jonathan/cv-templater/internal/rendering"
	"github.com/jonathan/cv-templater/internal/templates"
)

// loadRuntime resolves the configuration and initializes logging.
func loadRuntime() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	return cfg, logger, nil
}

// openStore connects to the generation history database when one is configured.
// It returns nil without a DATABASE_URL.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}

	logger.Info().Msg("generation history enabled")
	return database, nil
}

type generatorSetup struct {
	outputDir string
	renderPDF bool
	store     *db.DB
}

// newGenerator wires the template registry, the optional PDF renderer and the optional store.
func newGenerator(cfg *config.Config, logger zerolog.Logger, setup generatorSetup) (*generator.Generator, error) {
	registry, err := templates.NewRegistry(cfg.TemplatesDir, cfg.Templates)
	if err != nil {
		return nil, fmt.Errorf("invalid template registry: %w", err)
	}

	outputDir := setup.outputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	opts := generator.Options{
		Registry:   registry,
		OutputDir:  outputDir,
		EmptyValue: cfg.EmptyValue,
		Logger:     logger,
	}
	if setup.renderPDF && cfg.ShouldRenderPDF() {
		opts.Renderer = rendering.NewChromePDFRenderer(cfg.ChromePath, cfg.PDFTimeout(), logger)
	}
	if setup.store != nil {
		opts.Store = setup.store
	}

	return generator.New(opts)
}
