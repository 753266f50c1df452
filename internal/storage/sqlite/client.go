package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

// Client is the persistence gateway for the energy document collection.
type Client struct {
	db *sql.DB
}

// Filter selects documents by equality. CountryFold makes the country match
// case-insensitive (exact name, folded case — not a substring match).
type Filter struct {
	Country     string
	CountryFold bool
	Metric      string
	Sector      string
}

// MetricSummary is the per-metric aggregate: document count plus the set of
// countries carrying the metric.
type MetricSummary struct {
	Metric    string
	Count     int
	Countries []string
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("document store opened", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// InitSchema creates the collection table when absent.
func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS energy_documents (
		id TEXT PRIMARY KEY,
		country TEXT NOT NULL,
		country_serial INTEGER NOT NULL,
		metric TEXT NOT NULL,
		unit TEXT NOT NULL,
		sector TEXT NOT NULL,
		sub_sector TEXT NOT NULL,
		sub_sub_sector TEXT NOT NULL,
		source TEXT NOT NULL,
		source_link TEXT NOT NULL,
		years TEXT NOT NULL
	);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// EnsureIndexes is idempotent; it backs the read-side equality filters.
func (c *Client) EnsureIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_docs_country_metric ON energy_documents(country, metric)",
		"CREATE INDEX IF NOT EXISTS idx_docs_country_serial ON energy_documents(country_serial)",
		"CREATE INDEX IF NOT EXISTS idx_docs_sector_sub ON energy_documents(sector, sub_sector)",
		"CREATE INDEX IF NOT EXISTS idx_docs_metric ON energy_documents(metric)",
	}
	for _, stmt := range indexes {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	logger.Info("document indexes ensured")
	return nil
}

// ReplaceAll deletes every existing document and inserts the new set inside
// one transaction, in batches of batchSize. This is the reload semantics the
// pipeline depends on: same CSV in, same collection out.
func (c *Client) ReplaceAll(ctx context.Context, docs []*models.Document, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 50
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM energy_documents"); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO energy_documents
			(id, country, country_serial, metric, unit, sector, sub_sector, sub_sub_sector, source, source_link, years)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		for _, doc := range docs[start:end] {
			yearsJSON, err := json.Marshal(doc.Years)
			if err != nil {
				return fmt.Errorf("failed to marshal years for %s/%s: %w", doc.Country, doc.Metric, err)
			}
			_, err = stmt.ExecContext(ctx,
				doc.ID,
				doc.Country,
				doc.CountrySerial,
				doc.Metric,
				doc.Unit,
				doc.Sector,
				doc.SubSector,
				doc.SubSubSector,
				doc.Source,
				doc.SourceLink,
				string(yearsJSON),
			)
			if err != nil {
				return fmt.Errorf("failed to insert document %s/%s: %w", doc.Country, doc.Metric, err)
			}
		}
		logger.Debug("batch inserted", zap.Int("from", start), zap.Int("to", end))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reload: %w", err)
	}

	logger.Info("collection replaced", zap.Int("documents", len(docs)))
	return nil
}

// DeleteAll empties the collection.
func (c *Client) DeleteAll(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM energy_documents"); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// Find returns documents matching the filter, ordered by country then metric
// for stable output.
func (c *Client) Find(ctx context.Context, filter Filter) ([]*models.Document, error) {
	query := `
		SELECT id, country, country_serial, metric, unit, sector, sub_sector, sub_sub_sector, source, source_link, years
		FROM energy_documents WHERE 1=1
	`
	var args []interface{}

	if filter.Country != "" {
		if filter.CountryFold {
			query += " AND country = ? COLLATE NOCASE"
		} else {
			query += " AND country = ?"
		}
		args = append(args, filter.Country)
	}
	if filter.Metric != "" {
		query += " AND metric = ?"
		args = append(args, filter.Metric)
	}
	if filter.Sector != "" {
		query += " AND sector = ?"
		args = append(args, filter.Sector)
	}
	query += " ORDER BY country, metric"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

var distinctColumns = map[string]string{
	"country": "country",
	"metric":  "metric",
	"sector":  "sector",
	"unit":    "unit",
}

// Distinct returns the sorted distinct values of a whitelisted field.
func (c *Client) Distinct(ctx context.Context, field string) ([]string, error) {
	column, ok := distinctColumns[field]
	if !ok {
		return nil, fmt.Errorf("distinct not supported for field %q", field)
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("SELECT DISTINCT %s FROM energy_documents ORDER BY %s", column, column))
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", field, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Count returns the number of documents in the collection.
func (c *Client) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM energy_documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// MetricsSummary groups the collection by metric: document count plus the
// country set per metric. Count is per document, Countries is a set.
func (c *Client) MetricsSummary(ctx context.Context) ([]MetricSummary, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT metric, country FROM energy_documents ORDER BY metric, country")
	if err != nil {
		return nil, fmt.Errorf("failed to query metric summary: %w", err)
	}
	defer rows.Close()

	var summaries []MetricSummary
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)
	for rows.Next() {
		var metric, country string
		if err := rows.Scan(&metric, &country); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		i, ok := index[metric]
		if !ok {
			i = len(summaries)
			index[metric] = i
			seen[metric] = make(map[string]bool)
			summaries = append(summaries, MetricSummary{Metric: metric})
		}
		summaries[i].Count++
		if !seen[metric][country] {
			seen[metric][country] = true
			summaries[i].Countries = append(summaries[i].Countries, country)
		}
	}
	return summaries, rows.Err()
}

func scanDocument(rows *sql.Rows) (*models.Document, error) {
	var doc models.Document
	var yearsJSON string

	err := rows.Scan(
		&doc.ID,
		&doc.Country,
		&doc.CountrySerial,
		&doc.Metric,
		&doc.Unit,
		&doc.Sector,
		&doc.SubSector,
		&doc.SubSubSector,
		&doc.Source,
		&doc.SourceLink,
		&yearsJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	if err := json.Unmarshal([]byte(yearsJSON), &doc.Years); err != nil {
		return nil, fmt.Errorf("failed to unmarshal years for %s/%s: %w", doc.Country, doc.Metric, err)
	}
	return &doc, nil
}
