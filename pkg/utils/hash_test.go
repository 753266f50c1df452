package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	// Fixed digest so stored document ids stay stable across releases.
	assert.Equal(t, "9e107d9d372bb6826bd81d3542a419d6", HashString("The quick brown fox jumps over the lazy dog"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", HashString(""))

	assert.Equal(t, HashString("Kenya|Electricity Access Rate"), HashString("Kenya|Electricity Access Rate"))
	assert.NotEqual(t, HashString("Kenya|Electricity Access Rate"), HashString("Ghana|Electricity Access Rate"))
	assert.Len(t, HashString("anything"), 32)
}
