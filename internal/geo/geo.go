package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidLocation is returned when a location string cannot be resolved
	// to coordinates.
	ErrInvalidLocation = errors.New("invalid location")
)

// Location is a resolved place. Lat/Lon keep full precision for provider
// calls; Key() applies the 3-decimal grid used for caching.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

// Round3 snaps a coordinate to a 3-decimal grid (~111 m), so nearby requests
// collapse onto one cache entry.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Key returns the canonical cache key component for this location.
func (l Location) Key() string {
	return fmt.Sprintf("%.3f,%.3f", Round3(l.Lat), Round3(l.Lon))
}

// ParseCoords parses a "lat,lon" pair. Both components must be finite
// floating-point numbers.
func ParseCoords(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not a lat,lon pair", ErrInvalidLocation, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return 0, 0, fmt.Errorf("%w: bad latitude %q", ErrInvalidLocation, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, 0, fmt.Errorf("%w: bad longitude %q", ErrInvalidLocation, parts[1])
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("%w: coordinates out of range %q", ErrInvalidLocation, s)
	}
	return lat, lon, nil
}

const earthRadiusKm = 6371

// DistanceKm computes the haversine distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := 0.5 - math.Cos(dLat)/2 +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*(1-math.Cos(dLon))/2
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// Near reports whether two coordinates are within toleranceKm of each other.
func Near(lat1, lon1, lat2, lon2, toleranceKm float64) bool {
	return DistanceKm(lat1, lon1, lat2, lon2) < toleranceKm
}
