package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SerialConsistency(t *testing.T) {
	registry := NewRegistry(AfricanCountries)

	require.Equal(t, len(AfricanCountries), registry.Size())
	for i, country := range AfricanCountries {
		assert.Equal(t, i+1, registry.SerialOf(country), "country=%q", country)
	}
}

func TestRegistry_UnknownIsZero(t *testing.T) {
	registry := NewRegistry(AfricanCountries)

	assert.Equal(t, 0, registry.SerialOf("Unknownland"))
	assert.Equal(t, 0, registry.SerialOf(""))
	// Exact match only: no case folding.
	assert.Equal(t, 0, registry.SerialOf("kenya"))
	assert.Equal(t, 26, registry.SerialOf("Kenya"))
}

func TestRegistry_Contains(t *testing.T) {
	registry := NewRegistry([]string{"Kenya", "Ghana"})

	assert.True(t, registry.Contains("Kenya"))
	assert.False(t, registry.Contains("Nigeria"))
}

func TestRegistry_OrderIsStable(t *testing.T) {
	roster := []string{"B", "A", "C"}
	registry := NewRegistry(roster)

	assert.Equal(t, []string{"B", "A", "C"}, registry.Countries())
	assert.Equal(t, 1, registry.SerialOf("B"))
	assert.Equal(t, 2, registry.SerialOf("A"))

	// Mutating the caller's slice must not change serials.
	roster[0] = "Z"
	assert.Equal(t, 1, registry.SerialOf("B"))
	assert.Equal(t, 0, registry.SerialOf("Z"))
}
