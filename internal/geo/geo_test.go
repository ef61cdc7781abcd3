package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// One degree of latitude is ~111.2 km anywhere on the globe.
	a := Centroid{Lat: 10, Lng: 76}
	b := Centroid{Lat: 11, Lng: 76}

	got := Haversine(a, b)
	if math.Abs(got-111.2) > 0.5 {
		t.Errorf("expected ~111.2 km for one degree of latitude, got %v", got)
	}
}

func TestHaversineZeroDistance(t *testing.T) {
	c := Centroid{Lat: 28.6139, Lng: 77.209}
	if got := Haversine(c, c); got != 0 {
		t.Errorf("expected 0 for identical points, got %v", got)
	}
}

func TestCentroidTableLookup(t *testing.T) {
	table := CentroidTable{"110001": {Lat: 28.63, Lng: 77.22}}

	if _, ok := table.Lookup("110001"); !ok {
		t.Error("expected hit for known pincode")
	}
	if _, ok := table.Lookup("999999"); ok {
		t.Error("expected miss for unknown pincode")
	}
}
