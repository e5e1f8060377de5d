package models

import "strings"

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// MapLocation groups all records sharing one geocoded city/state pair.
type MapLocation struct {
	City    string
	State   string
	Point   GeoPoint
	Records []CaseRecord
}

// LocationKey normalizes a city/state pair into the geocode cache key.
func LocationKey(city, state string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(state))
}
