package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintStrings(t *testing.T) {
	a := FingerprintStrings([]string{"active", "verified"})
	b := FingerprintStrings([]string{"active", "verified"})
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, FingerprintStrings([]string{"verified", "active"}))

	// The separator keeps concatenation ambiguity out of the key.
	assert.NotEqual(t,
		FingerprintStrings([]string{"ab", "c"}),
		FingerprintStrings([]string{"a", "bc"}))

	assert.NotEqual(t, FingerprintStrings(nil), FingerprintStrings([]string{""}))
}

func TestMix64NotCommutative(t *testing.T) {
	a, b := U64("left"), U64("right")
	assert.NotEqual(t, Mix64(a, b), Mix64(b, a))
}
