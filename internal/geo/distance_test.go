package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	cologne     = Point{Latitude: 50.9375, Longitude: 6.9603}
	bonn        = Point{Latitude: 50.7374, Longitude: 7.0982}
	gummersbach = Point{Latitude: 51.0277, Longitude: 7.5630}
	dortmund    = Point{Latitude: 51.5136, Longitude: 7.4653}
)

func TestHaversineKnownDistance(t *testing.T) {
	assert.InDelta(t, 24.4, DistanceKm(cologne, bonn), 1.0)
	assert.InDelta(t, 43.0, DistanceKm(cologne, gummersbach), 2.0)
	assert.Zero(t, DistanceKm(bonn, bonn))
}

func TestHaversineSymmetric(t *testing.T) {
	points := []Point{cologne, bonn, gummersbach, dortmund, {Latitude: -33.86, Longitude: 151.21}}

	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 0.1)
		}
	}
}

func TestDistanceKmRoundsToOneDecimal(t *testing.T) {
	d := DistanceKm(cologne, dortmund)
	assert.InDelta(t, d, float64(int(d*10+0.5))/10, 1e-9)
}
