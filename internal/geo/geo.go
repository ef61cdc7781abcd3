package geo

import "math"

// Centroid is the lat/lng center point of one pincode area.
type Centroid struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CentroidTable maps pincode -> centroid. It is loaded once from the
// reference store at process start and never mutated afterwards, so it is
// safe to share across every request without locking.
type CentroidTable map[string]Centroid

// Lookup returns the centroid for a pincode.
func (t CentroidTable) Lookup(pincode string) (Centroid, bool) {
	c, ok := t[pincode]
	return c, ok
}

const earthRadiusKm = 6371.0

// Haversine computes the great-circle distance in kilometers between two
// centroids. Used as the road-distance fallback when the external
// provider is unavailable.
func Haversine(a, b Centroid) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
