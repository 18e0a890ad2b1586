// Package utm projects WGS84 geodetic coordinates to Universal Transverse
// Mercator and back.
//
// The projection uses the ellipsoidal transverse Mercator series of Snyder
// (USGS Professional Paper 1395), which is accurate to well under a millimetre
// inside a 6 degree zone.
package utm

import "math"

// WGS84 reference ellipsoid
const (
	SemiMajorAxis = 6378137.0
	Flattening    = 1 / 298.257223563
)

// Projection parameters shared by every UTM zone
const (
	ScaleFactor           = 0.9996
	FalseEasting          = 500000.0
	SouthernFalseNorthing = 10000000.0
)

var (
	// first and second eccentricity squared
	eccSq  = Flattening * (2 - Flattening)
	eccPSq = eccSq / (1 - eccSq)

	// meridian arc coefficients
	m1 = 1 - eccSq/4 - 3*eccSq*eccSq/64 - 5*eccSq*eccSq*eccSq/256
	m2 = 3*eccSq/8 + 3*eccSq*eccSq/32 + 45*eccSq*eccSq*eccSq/1024
	m3 = 15*eccSq*eccSq/256 + 45*eccSq*eccSq*eccSq/1024
	m4 = 35 * eccSq * eccSq * eccSq / 3072

	// footpoint latitude coefficients in e1
	e1 = (1 - math.Sqrt(1-eccSq)) / (1 + math.Sqrt(1-eccSq))
	p2 = 3.0/2*e1 - 27.0/32*math.Pow(e1, 3) + 269.0/512*math.Pow(e1, 5)
	p3 = 21.0/16*e1*e1 - 55.0/32*math.Pow(e1, 4)
	p4 = 151.0/96*math.Pow(e1, 3) - 417.0/128*math.Pow(e1, 5)
	p5 = 1097.0 / 512 * math.Pow(e1, 4)
)

// meridianArc returns the distance along the meridian from the equator to phi
func meridianArc(phi float64) float64 {
	return SemiMajorAxis * (m1*phi -
		m2*math.Sin(2*phi) +
		m3*math.Sin(4*phi) -
		m4*math.Sin(6*phi))
}

// wrapAngle normalises a radian angle into [-pi, pi)
func wrapAngle(v float64) float64 {
	r := math.Mod(v+math.Pi, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r - math.Pi
}
