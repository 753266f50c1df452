package taxonomy

// Mapping is the canonical classification for one source indicator.
type Mapping struct {
	Metric       string
	Unit         string
	Sector       string
	SubSector    string
	SubSubSector string
}

// UnmappedPolicy decides what happens to indicators absent from the table.
type UnmappedPolicy int

const (
	// UnmappedSkip drops the row entirely.
	UnmappedSkip UnmappedPolicy = iota
	// UnmappedPassthrough keeps the row under a generic Energy bucket,
	// using the raw label as the metric name.
	UnmappedPassthrough
)

// Mapper translates raw indicator labels into canonical mappings.
// Lookup is exact string equality only; fuzzy matching would silently
// misclassify indicators that differ by a unit suffix.
type Mapper struct {
	table  map[string]Mapping
	policy UnmappedPolicy
}

// NewMapper copies the table so later mutation of the caller's map cannot
// change mapping behavior mid-run.
func NewMapper(table map[string]Mapping, policy UnmappedPolicy) *Mapper {
	copied := make(map[string]Mapping, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &Mapper{table: copied, policy: policy}
}

// Map resolves a raw indicator label. The second return is false when the
// indicator is unknown and the policy is UnmappedSkip.
func (m *Mapper) Map(rawIndicator string) (Mapping, bool) {
	if mapping, ok := m.table[rawIndicator]; ok {
		return mapping, true
	}
	if m.policy == UnmappedPassthrough {
		return Mapping{
			Metric:       rawIndicator,
			Unit:         "Unknown",
			Sector:       "Energy",
			SubSector:    "General",
			SubSubSector: "",
		}, true
	}
	return Mapping{}, false
}

// Policy reports the configured unmapped-indicator policy.
func (m *Mapper) Policy() UnmappedPolicy {
	return m.policy
}
