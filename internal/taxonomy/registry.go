package taxonomy

// Registry is the fixed ordered roster of recognized countries. Position
// defines the serial numbering, so the order must be stable across runs.
type Registry struct {
	countries []string
	serials   map[string]int
}

// NewRegistry copies the roster; serials are 1-based positions.
func NewRegistry(countries []string) *Registry {
	copied := make([]string, len(countries))
	copy(copied, countries)

	serials := make(map[string]int, len(copied))
	for i, c := range copied {
		serials[c] = i + 1
	}
	return &Registry{countries: copied, serials: serials}
}

// SerialOf returns the 1-based serial for a known country, 0 for any
// unrecognized name. No case folding, no diacritic normalization.
func (r *Registry) SerialOf(countryName string) int {
	return r.serials[countryName]
}

// Contains reports whether the exact name is in the roster.
func (r *Registry) Contains(countryName string) bool {
	_, ok := r.serials[countryName]
	return ok
}

// Size returns the roster length.
func (r *Registry) Size() int {
	return len(r.countries)
}

// Countries returns the roster in serial order.
func (r *Registry) Countries() []string {
	out := make([]string, len(r.countries))
	copy(out, r.countries)
	return out
}
