package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/report"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

type ReportHandler struct {
	generator *report.Generator
}

func NewReportHandler(generator *report.Generator) *ReportHandler {
	return &ReportHandler{generator: generator}
}

// GetReport serves the comprehensive development report as plain text.
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	text, err := h.generator.Generate(c.Context())
	if err != nil {
		logger.Error("report generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(text)
}

// GetQuickReport serves the one-page summary.
func (h *ReportHandler) GetQuickReport(c *fiber.Ctx) error {
	text, err := h.generator.QuickReport(c.Context())
	if err != nil {
		logger.Error("quick report generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(text)
}
