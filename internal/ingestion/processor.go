package ingestion

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/export"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/metrics"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/validation"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

// Store is the slice of the persistence gateway the run depends on.
type Store interface {
	EnsureIndexes() error
	ReplaceAll(ctx context.Context, docs []*models.Document, batchSize int) error
}

// RunSummary is the operator-facing result of one ingestion run.
type RunSummary struct {
	RunID             string
	RowsRead          int
	RowsSkipped       int
	DuplicatesDropped int
	DocumentsProduced int
	DocumentsStored   int
	CompletenessScore float64
	Report            *validation.Report
	Duration          time.Duration
}

// Processor drives one batch run: read, normalize, validate, store. It is
// single-threaded and synchronous; reruns are the retry mechanism.
type Processor struct {
	csvPath        string
	normalizer     *Normalizer
	validator      *validation.Validator
	store          Store
	batchSize      int
	exportVerifyTo string
}

func NewProcessor(csvPath string, normalizer *Normalizer, validator *validation.Validator, store Store, batchSize int) *Processor {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Processor{
		csvPath:    csvPath,
		normalizer: normalizer,
		validator:  validator,
		store:      store,
		batchSize:  batchSize,
	}
}

// WithVerificationExport makes the run write the transformed batch to a flat
// CSV after storing, for eyeballing against the source.
func (p *Processor) WithVerificationExport(path string) *Processor {
	p.exportVerifyTo = path
	return p
}

// Run executes the full pipeline. Any returned error is terminal for the
// run; previously committed state follows the store's replace-all semantics.
func (p *Processor) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{RunID: uuid.New().String()}

	logger.Info("ingestion run starting",
		zap.String("run_id", summary.RunID),
		zap.String("csv", p.csvPath),
	)

	dataset, err := LoadDataset(p.csvPath)
	if err != nil {
		return nil, err
	}
	summary.RowsRead = len(dataset.Rows)
	metrics.RowsRead.Add(float64(summary.RowsRead))
	logger.Info("dataset loaded",
		zap.Int("rows", len(dataset.Rows)),
		zap.Strings("year_columns", dataset.YearColumns),
	)

	docs := make([]*models.Document, 0, len(dataset.Rows))
	seen := make(map[string]bool, len(dataset.Rows))
	for _, row := range dataset.Rows {
		doc, ok := p.normalizer.Normalize(row, dataset.YearColumns)
		if !ok {
			summary.RowsSkipped++
			continue
		}
		// One document per (country, metric): a repeated source row is a
		// data defect, not two observations. First occurrence wins.
		if seen[doc.ID] {
			summary.DuplicatesDropped++
			logger.Warn("duplicate row dropped",
				zap.String("country", doc.Country),
				zap.String("metric", doc.Metric),
			)
			continue
		}
		seen[doc.ID] = true
		docs = append(docs, doc)
	}
	summary.DocumentsProduced = len(docs)
	metrics.RowsSkipped.Add(float64(summary.RowsSkipped))
	metrics.DuplicatesDropped.Add(float64(summary.DuplicatesDropped))
	metrics.DocumentsProduced.Add(float64(len(docs)))
	logger.Info("rows normalized",
		zap.Int("documents", len(docs)),
		zap.Int("skipped", summary.RowsSkipped),
		zap.Int("duplicates", summary.DuplicatesDropped),
	)

	report := p.validator.Validate(docs)
	summary.Report = report
	summary.CompletenessScore = report.CompletenessScore
	metrics.CompletenessScore.Set(report.CompletenessScore)
	logger.Info("batch validated",
		zap.Float64("completeness_score", report.CompletenessScore),
		zap.Int("countries_covered", len(report.ProcessedCountries)),
		zap.Int("countries_missing", len(report.MissingCountries)),
	)

	if err := p.store.EnsureIndexes(); err != nil {
		return nil, fmt.Errorf("persistence: %w", err)
	}
	if err := p.store.ReplaceAll(ctx, docs, p.batchSize); err != nil {
		return nil, fmt.Errorf("persistence: %w", err)
	}
	summary.DocumentsStored = len(docs)
	metrics.DocumentsStored.Add(float64(len(docs)))

	if p.exportVerifyTo != "" {
		if err := p.writeVerificationExport(docs); err != nil {
			// Verification output is a convenience, not part of the load.
			logger.Warn("verification export failed", zap.Error(err))
		}
	}

	summary.Duration = time.Since(start)
	metrics.IngestDuration.Observe(summary.Duration.Seconds())
	logger.Info("ingestion run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("stored", summary.DocumentsStored),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (p *Processor) writeVerificationExport(docs []*models.Document) error {
	f, err := os.Create(p.exportVerifyTo)
	if err != nil {
		return fmt.Errorf("create %q: %w", p.exportVerifyTo, err)
	}
	defer f.Close()

	if err := export.WriteFlatCSV(f, docs); err != nil {
		return err
	}
	logger.Info("verification export written", zap.String("path", p.exportVerifyTo))
	return nil
}
