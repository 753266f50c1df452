package ingestion

import (
	"math"
	"strconv"
	"strings"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/taxonomy"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/utils"
)

// CoercionPolicy makes the year-cell parsing rules an explicit object so the
// null semantics are testable on their own.
type CoercionPolicy struct {
	nullTokens map[string]bool
}

// NewCoercionPolicy treats each token (after trimming) as a recorded null.
func NewCoercionPolicy(nullTokens []string) *CoercionPolicy {
	set := make(map[string]bool, len(nullTokens))
	for _, t := range nullTokens {
		set[t] = true
	}
	return &CoercionPolicy{nullTokens: set}
}

// DefaultCoercionPolicy nulls empty cells and the literal NULL sentinel.
func DefaultCoercionPolicy() *CoercionPolicy {
	return NewCoercionPolicy([]string{"", "NULL"})
}

// Coerce parses one cell. A missing, empty, sentinel, or unparseable cell
// yields nil; a null is never coerced to 0 and parse failure never raises.
// NaN and infinity parse, but they are not observations: they become nil
// too, so a stored year map is always JSON-encodable.
func (p *CoercionPolicy) Coerce(cell string) *float64 {
	trimmed := strings.TrimSpace(cell)
	if p.nullTokens[trimmed] {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// Normalizer converts one source row into a canonical document. It is a pure
// transform: persistence and batching happen in the processor.
type Normalizer struct {
	mapper     *taxonomy.Mapper
	registry   *taxonomy.Registry
	policy     *CoercionPolicy
	source     string
	sourceLink string
}

func NewNormalizer(mapper *taxonomy.Mapper, registry *taxonomy.Registry, policy *CoercionPolicy, source, sourceLink string) *Normalizer {
	return &Normalizer{
		mapper:     mapper,
		registry:   registry,
		policy:     policy,
		source:     source,
		sourceLink: sourceLink,
	}
}

// Normalize returns the canonical document for a row, or ok=false when the
// mapper's skip policy drops the indicator. Dropping is a recorded decision,
// not an error.
func (n *Normalizer) Normalize(row Row, yearColumns []string) (*models.Document, bool) {
	country := row["Country"]
	indicator := row["Indicator"]

	mapping, ok := n.mapper.Map(indicator)
	if !ok {
		return nil, false
	}

	doc := &models.Document{
		ID:            utils.HashString(country + "|" + mapping.Metric),
		Country:       country,
		CountrySerial: n.registry.SerialOf(country),
		Metric:        mapping.Metric,
		Unit:          mapping.Unit,
		Sector:        mapping.Sector,
		SubSector:     mapping.SubSector,
		SubSubSector:  mapping.SubSubSector,
		Source:        n.source,
		SourceLink:    n.sourceLink,
		Years:         make(map[string]*float64, len(yearColumns)),
	}

	// Every present year column gets a key, value or null. Absent columns
	// never get one.
	for _, yearCol := range yearColumns {
		doc.Years[yearCol] = n.policy.Coerce(row[yearCol])
	}

	return doc, true
}
