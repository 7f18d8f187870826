package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZero(t *testing.T) {
	assert.InDelta(t, 0, Distance(12.97, 77.59, 12.97, 77.59), 1e-9)
}

func TestDistanceKnownCities(t *testing.T) {
	// Bengaluru to Chennai is roughly 290 km as the crow flies.
	d := Distance(12.9716, 77.5946, 13.0827, 80.2707)
	assert.InDelta(t, 290, d, 15)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(28.61, 77.20, 19.07, 72.87)
	b := Distance(19.07, 72.87, 28.61, 77.20)
	assert.InDelta(t, a, b, 1e-9)
}
