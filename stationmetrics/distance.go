// Package stationmetrics implements source-site
// geometry (epicentral and hypocentral distance) and optional Vs30
// lookup from a configured grid. The distance math mirrors
// geo.go's WGS84 forward-geodesy style (elementwise trig,
// stdlib math only) but computes great-circle distance rather than
// beam-pointing geometry; see DESIGN.md for why this package does not
// adopt soniakeys/meeus's globe package.
package stationmetrics

import "math"

const earthRadiusKm = 6371.0

// StationCoordinates is a station's surface location.
type StationCoordinates struct {
	Latitude  float64
	Longitude float64
}

// HypocenterCoordinates is an event's location including depth in km.
type HypocenterCoordinates struct {
	Latitude  float64
	Longitude float64
	DepthKm   float64
}

// EpicentralDistanceKm returns the great-circle distance in km between
// a station and an event's epicenter.
func EpicentralDistanceKm(station StationCoordinates, hypo HypocenterCoordinates) float64 {
	return haversineKm(station.Latitude, station.Longitude, hypo.Latitude, hypo.Longitude)
}

// HypocentralDistanceKm is sqrt(epicentral^2 + depth^2).
func HypocentralDistanceKm(station StationCoordinates, hypo HypocenterCoordinates) float64 {
	epi := EpicentralDistanceKm(station, hypo)
	return math.Sqrt(epi*epi + hypo.DepthKm*hypo.DepthKm)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180.0
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BackAzimuthDegrees returns the azimuth in degrees from the station
// toward the hypocenter's epicenter, measured clockwise from north,
// used by metrics.OrientationCheck to orient radial_transverse.
func BackAzimuthDegrees(station StationCoordinates, hypo HypocenterCoordinates) float64 {
	rad := math.Pi / 180.0
	lat1, lat2 := station.Latitude*rad, hypo.Latitude*rad
	dLon := (hypo.Longitude - station.Longitude) * rad
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Atan2(y, x) / rad
	return math.Mod(brng+360, 360)
}
