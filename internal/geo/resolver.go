package geo

import (
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"
)

// Resolver maps free-form location identifiers to coordinates. It recognizes
// one configured alias (the home spot) and "lat,lon" pairs; anything else is
// handed to the optional geocoder when one is configured.
type Resolver struct {
	alias     string
	aliasLoc  Location
	geocoding bool
}

// NewResolver builds a Resolver with a fixed alias location. googleAPIKey may
// be empty, in which case free-text names are rejected.
func NewResolver(alias string, aliasLoc Location, googleAPIKey string) *Resolver {
	if googleAPIKey != "" {
		geocoder.ApiKey = googleAPIKey
	}
	return &Resolver{
		alias:     strings.ToLower(strings.TrimSpace(alias)),
		aliasLoc:  aliasLoc,
		geocoding: googleAPIKey != "",
	}
}

// Resolve turns a location string into a Location. Alias matching is
// case-insensitive and trimmed.
func (r *Resolver) Resolve(input string) (Location, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrInvalidLocation)
	}

	if r.alias != "" && strings.ToLower(s) == r.alias {
		return r.aliasLoc, nil
	}

	if lat, lon, err := ParseCoords(s); err == nil {
		return Location{Lat: lat, Lon: lon, Name: fmt.Sprintf("%.3f, %.3f", Round3(lat), Round3(lon))}, nil
	} else if strings.Contains(s, ",") {
		// Looked like coordinates but did not parse; report that rather than
		// geocoding something like "12,abc".
		return Location{}, err
	}

	if r.geocoding {
		loc, err := geocoder.Geocoding(geocoder.Address{City: s})
		if err != nil {
			return Location{}, fmt.Errorf("%w: geocoding %q: %v", ErrInvalidLocation, s, err)
		}
		return Location{Lat: loc.Latitude, Lon: loc.Longitude, Name: s}, nil
	}

	return Location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
}
