package utm

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/kass/coordcon/pkg/models"
)

// Forward projects a geodetic coordinate into its UTM zone. Latitudes outside
// -80..84 fail with ErrOutOfRange; there is no polar fallback.
func Forward(g models.GeodeticCoordinate) (models.UtmCoordinate, error) {
	if err := validGeodetic(g); err != nil {
		return models.UtmCoordinate{}, err
	}
	letter, err := ZoneLetter(g.Latitude)
	if err != nil {
		return models.UtmCoordinate{}, err
	}
	zone := ZoneNumber(g.Longitude)

	phi := (s1.Angle(g.Latitude) * s1.Degree).Radians()
	lambda := (s1.Angle(g.Longitude) * s1.Degree).Radians()
	lambda0 := (s1.Angle(CentralMeridian(zone)) * s1.Degree).Radians()

	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := sinPhi / cosPhi
	t := tanPhi * tanPhi
	t2 := t * t

	n := SemiMajorAxis / math.Sqrt(1-eccSq*sinPhi*sinPhi)
	c := eccPSq * cosPhi * cosPhi
	a := cosPhi * wrapAngle(lambda-lambda0)
	m := meridianArc(phi)

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	easting := ScaleFactor*n*(a+
		a3/6*(1-t+c)+
		a5/120*(5-18*t+t2+72*c-58*eccPSq)) + FalseEasting

	northing := ScaleFactor * (m + n*tanPhi*(a2/2+
		a4/24*(5-t+9*c+4*c*c)+
		a6/720*(61-58*t+t2+600*c-330*eccPSq)))

	if g.Latitude < 0 {
		northing += SouthernFalseNorthing
	}

	return models.UtmCoordinate{
		Easting:    easting,
		Northing:   northing,
		ZoneNumber: zone,
		ZoneLetter: letter,
	}, nil
}

func validGeodetic(g models.GeodeticCoordinate) error {
	if math.IsNaN(g.Latitude) || g.Latitude < -90 || g.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v not in -90..90", ErrOutOfRange, g.Latitude)
	}
	if math.IsNaN(g.Longitude) || g.Longitude < -180 || g.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v not in -180..180", ErrOutOfRange, g.Longitude)
	}
	return nil
}
