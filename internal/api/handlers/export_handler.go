package handlers

import (
	"bytes"
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/export"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/metrics"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/sqlite"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

// DocumentStore is the read slice the export endpoints need.
type DocumentStore interface {
	Find(ctx context.Context, filter sqlite.Filter) ([]*models.Document, error)
}

type ExportHandler struct {
	db DocumentStore
}

func NewExportHandler(db DocumentStore) *ExportHandler {
	return &ExportHandler{db: db}
}

func (h *ExportHandler) allDocuments(c *fiber.Ctx) ([]*models.Document, error) {
	return h.db.Find(c.Context(), sqlite.Filter{})
}

// ExportCSV serves the flat dataset: one row per document.
func (h *ExportHandler) ExportCSV(c *fiber.Ctx) error {
	return h.serve(c, "csv", "all_energy_data.csv", "text/csv", export.WriteFlatCSV)
}

// ExportTidy serves the long-format dataset for BI tools.
func (h *ExportHandler) ExportTidy(c *fiber.Ctx) error {
	return h.serve(c, "tidy", "tidy_energy_data.csv", "text/csv", export.WriteTidyCSV)
}

// ExportJSON serves the document array with internal ids stripped.
func (h *ExportHandler) ExportJSON(c *fiber.Ctx) error {
	return h.serve(c, "json", "energy_data.json", "application/json", export.WriteJSON)
}

// ExportWorkbook serves the xlsx workbook, one sheet per metric.
func (h *ExportHandler) ExportWorkbook(c *fiber.Ctx) error {
	return h.serve(c, "workbook", "energy_data_analysis.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteWorkbook)
}

// ExportCountry serves the single-country CSV.
func (h *ExportHandler) ExportCountry(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "country name is required",
		})
	}

	docs, err := h.db.Find(c.Context(), sqlite.Filter{Country: name, CountryFold: true})
	if err != nil {
		logger.Error("country export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export country data",
		})
	}
	if len(docs) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "country not found",
		})
	}

	var buf bytes.Buffer
	if err := export.WriteCountryCSV(&buf, docs); err != nil {
		logger.Error("country export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export country data",
		})
	}

	metrics.ExportTotal.WithLabelValues("country_csv").Inc()
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+docs[0].Country+`_energy_data.csv"`)
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) serve(c *fiber.Ctx, format, filename, contentType string, write func(w io.Writer, docs []*models.Document) error) error {
	docs, err := h.allDocuments(c)
	if err != nil {
		logger.Error("export failed", zap.String("format", format), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export data",
		})
	}

	var buf bytes.Buffer
	if err := write(&buf, docs); err != nil {
		logger.Error("export failed", zap.String("format", format), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export data",
		})
	}

	metrics.ExportTotal.WithLabelValues(format).Inc()
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
