package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/cache/redis"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/ingestion"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/sqlite"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/taxonomy"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/validation"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/config"
	appLogger "github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingestion failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is the usual way operators supply the store and CSV
	// paths; system env vars win when both are set.
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(true); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer appLogger.Sync()

	store, err := sqlite.NewClient(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	policy := taxonomy.UnmappedSkip
	if cfg.Ingest.OnUnmapped == "passthrough" {
		policy = taxonomy.UnmappedPassthrough
	}
	mapper := taxonomy.NewMapper(taxonomy.DefaultIndicatorTable(), policy)
	registry := taxonomy.NewRegistry(taxonomy.AfricanCountries)

	normalizer := ingestion.NewNormalizer(
		mapper,
		registry,
		ingestion.DefaultCoercionPolicy(),
		cfg.Ingest.Source,
		cfg.Ingest.SourceLink,
	)
	validator := validation.NewValidator(registry)

	processor := ingestion.NewProcessor(cfg.CSV.Path, normalizer, validator, store, cfg.Ingest.BatchSize)
	if cfg.Ingest.ExportVerifyTo != "" {
		processor = processor.WithVerificationExport(cfg.Ingest.ExportVerifyTo)
	}

	summary, err := processor.Run(context.Background())
	if err != nil {
		return err
	}

	// Readers must not serve responses cached from the previous load.
	if cfg.Redis.Enabled {
		invalidateCache(cfg)
	}

	printSummary(summary)
	return nil
}

func invalidateCache(cfg *config.Config) {
	cache, err := redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, 0)
	if err != nil {
		appLogger.Warn("cache unavailable, skipping invalidation", zap.Error(err))
		return
	}
	defer cache.Close()

	if err := cache.Invalidate(context.Background()); err != nil {
		appLogger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func printSummary(s *ingestion.RunSummary) {
	fmt.Println("=== INGESTION RUN SUMMARY ===")
	fmt.Printf("Run ID:              %s\n", s.RunID)
	fmt.Printf("Rows read:           %d\n", s.RowsRead)
	fmt.Printf("Rows skipped:        %d\n", s.RowsSkipped)
	fmt.Printf("Duplicates dropped:  %d\n", s.DuplicatesDropped)
	fmt.Printf("Documents produced:  %d\n", s.DocumentsProduced)
	fmt.Printf("Documents stored:    %d\n", s.DocumentsStored)
	fmt.Printf("Completeness score:  %.2f%%\n", s.CompletenessScore)
	fmt.Printf("Countries covered:   %d/%d\n", len(s.Report.ProcessedCountries), s.Report.TotalCountries)
	fmt.Printf("Duration:            %s\n", s.Duration)
}
