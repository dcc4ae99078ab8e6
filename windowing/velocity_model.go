// Package windowing implements P-arrival estimation
// with a fallback picker cascade, and signal-end selection models.
//
// The 1-D velocity model struct below follows the shape of a
// SoundVelocityProfile (svp.go): a sequence of (depth, velocity) pairs
// used there to correct sounding locations, used here to predict a
// P-wave travel time from a hypocenter to a station.
package windowing

import (
	"math"
	"sort"
)

// VelocityModel is a 1-D layered Earth velocity model: depth (km) to
// P-wave velocity (km/s) control points, sorted by depth.
type VelocityModel struct {
	Depth    []float64
	Velocity []float64
}

// VelocityAt linearly interpolates velocity at a given depth, clamped
// to the model's min/max depth.
func (m VelocityModel) VelocityAt(depthKM float64) float64 {
	n := len(m.Depth)
	if n == 0 {
		return 0
	}
	if depthKM <= m.Depth[0] {
		return m.Velocity[0]
	}
	if depthKM >= m.Depth[n-1] {
		return m.Velocity[n-1]
	}
	idx := sort.SearchFloat64s(m.Depth, depthKM)
	if idx == 0 {
		return m.Velocity[0]
	}
	d0, d1 := m.Depth[idx-1], m.Depth[idx]
	v0, v1 := m.Velocity[idx-1], m.Velocity[idx]
	frac := (depthKM - d0) / (d1 - d0)
	return v0 + frac*(v1-v0)
}

// TravelTimeSeconds estimates a straight-ray P-wave travel time
// between a hypocenter at depthKM and a station at epicentral distance
// distKM, using the average velocity from the surface down to depthKM
// as a first-order estimate. This is intentionally simple: a full
// ray-tracer is out of scope; only a predicted arrival time feeds the picker cascade.
func (m VelocityModel) TravelTimeSeconds(distKM, depthKM float64) float64 {
	pathKM := math.Hypot(distKM, depthKM)
	avgV := m.averageVelocity(depthKM)
	if avgV <= 0 {
		return math.Inf(1)
	}
	return pathKM / avgV
}

func (m VelocityModel) averageVelocity(depthKM float64) float64 {
	if len(m.Depth) == 0 {
		return 0
	}
	samples := 10
	var sum float64
	for i := 0; i <= samples; i++ {
		d := depthKM * float64(i) / float64(samples)
		sum += m.VelocityAt(d)
	}
	return sum / float64(samples+1)
}
