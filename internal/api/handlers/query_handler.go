package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/query"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

type QueryHandler struct {
	engine *query.Engine
}

func NewQueryHandler(engine *query.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// GetCountries lists every country present in the collection.
func (h *QueryHandler) GetCountries(c *fiber.Ctx) error {
	countries, err := h.engine.Countries(c.Context())
	if err != nil {
		logger.Error("failed to list countries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load countries",
		})
	}
	return c.JSON(fiber.Map{
		"count":     len(countries),
		"countries": countries,
	})
}

// GetCountryData returns all documents for one country, or suggestions when
// the name does not match.
func (h *QueryHandler) GetCountryData(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "country name is required",
		})
	}

	result, err := h.engine.CountryData(c.Context(), name)
	if err != nil {
		logger.Error("country query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to query country data",
		})
	}

	if len(result.Documents) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":       "country not found",
			"suggestions": result.Suggestions,
		})
	}
	return c.JSON(result)
}

// Compare returns the per-year side-by-side of one metric for two countries.
func (h *QueryHandler) Compare(c *fiber.Ctx) error {
	countryA := c.Query("a")
	countryB := c.Query("b")
	metric := c.Query("metric")
	if countryA == "" || countryB == "" || metric == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query params a, b and metric are required",
		})
	}

	comparison, err := h.engine.Compare(c.Context(), countryA, countryB, metric)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logger.Error("compare query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compare countries",
		})
	}
	return c.JSON(comparison)
}

// GetStats returns collection-level counts.
func (h *QueryHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.engine.Stats(c.Context())
	if err != nil {
		logger.Error("stats query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stats",
		})
	}
	return c.JSON(stats)
}
