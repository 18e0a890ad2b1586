package utm

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/kass/coordcon/pkg/models"
)

// Accepted easting/northing ranges for inverse projection
const (
	MinEasting  = 100000.0
	MaxEasting  = 1000000.0
	MinNorthing = 0.0
	MaxNorthing = 10000000.0
)

// Inverse converts a UTM coordinate back to latitude/longitude. The
// hemisphere comes from the zone letter.
func Inverse(u models.UtmCoordinate) (models.GeodeticCoordinate, error) {
	if err := ValidZone(u.ZoneNumber, u.ZoneLetter); err != nil {
		return models.GeodeticCoordinate{}, err
	}
	if math.IsNaN(u.Easting) || u.Easting < MinEasting || u.Easting >= MaxEasting {
		return models.GeodeticCoordinate{}, fmt.Errorf("%w: easting %v not in [%v, %v)", ErrOutOfRange, u.Easting, MinEasting, MaxEasting)
	}
	if math.IsNaN(u.Northing) || u.Northing < MinNorthing || u.Northing > MaxNorthing {
		return models.GeodeticCoordinate{}, fmt.Errorf("%w: northing %v not in [%v, %v]", ErrOutOfRange, u.Northing, MinNorthing, MaxNorthing)
	}

	x := u.Easting - FalseEasting
	y := u.Northing
	if !Northern(u.ZoneLetter) {
		y -= SouthernFalseNorthing
	}

	// footpoint latitude from the rectifying latitude mu
	mu := y / ScaleFactor / (SemiMajorAxis * m1)
	phi1 := mu +
		p2*math.Sin(2*mu) +
		p3*math.Sin(4*mu) +
		p4*math.Sin(6*mu) +
		p5*math.Sin(8*mu)

	sinPhi, cosPhi := math.Sincos(phi1)
	tanPhi := sinPhi / cosPhi
	t := tanPhi * tanPhi
	t2 := t * t

	w := 1 - eccSq*sinPhi*sinPhi
	n := SemiMajorAxis / math.Sqrt(w)
	r := (1 - eccSq) / w // radius of curvature in the meridian, over n
	c := eccPSq * cosPhi * cosPhi
	c2 := c * c

	d := x / (n * ScaleFactor)
	d2 := d * d
	d3 := d2 * d
	d4 := d3 * d
	d5 := d4 * d
	d6 := d5 * d

	phi := phi1 - (tanPhi/r)*(d2/2-
		d4/24*(5+3*t+10*c-4*c2-9*eccPSq)+
		d6/720*(61+90*t+298*c+45*t2-252*eccPSq-3*c2))

	lambda := (d -
		d3/6*(1+2*t+c) +
		d5/120*(5-2*c+28*t-3*c2+8*eccPSq+24*t2)) / cosPhi

	lambda0 := (s1.Angle(CentralMeridian(u.ZoneNumber)) * s1.Degree).Radians()
	lambda = wrapAngle(lambda + lambda0)

	g := models.GeodeticCoordinate{
		Latitude:  s1.Angle(phi).Degrees(),
		Longitude: s1.Angle(lambda).Degrees(),
	}
	if math.IsNaN(g.Latitude) || math.IsNaN(g.Longitude) || math.Abs(g.Latitude) > 90 {
		return models.GeodeticCoordinate{}, fmt.Errorf("%w: %v %v in zone %s does not map to a latitude", ErrOutOfRange, u.Easting, u.Northing, u.Zone())
	}
	return g, nil
}
