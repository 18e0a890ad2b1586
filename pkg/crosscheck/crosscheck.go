// Package crosscheck compares the projections in pkg/utm against the
// independent GeoTrans based implementation in github.com/tzneal/coordconv.
package crosscheck

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
	"github.com/tzneal/coordconv"
)

// Deviation is the disagreement between the two implementations for one point
type Deviation struct {
	Point     models.GeodeticCoordinate
	Easting   float64 // metres
	Northing  float64 // metres
	RoundTrip float64 // degrees, Inverse(Forward(p)) against p
}

// Report aggregates deviations over a sample
type Report struct {
	Samples      int
	MaxEasting   Deviation
	MaxNorthing  Deviation
	MaxRoundTrip Deviation
}

// Within reports whether every deviation stays inside the tolerances
func (r Report) Within(metres, degrees float64) bool {
	return r.MaxEasting.Easting <= metres &&
		r.MaxNorthing.Northing <= metres &&
		r.MaxRoundTrip.RoundTrip <= degrees
}

// Compare projects g with both implementations. coordconv is forced into the
// zone the local resolver picked so the Norway/Svalbard exceptions do not
// show up as differences.
func Compare(g models.GeodeticCoordinate) (Deviation, error) {
	ours, err := utm.Forward(g)
	if err != nil {
		return Deviation{}, err
	}

	ref, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(g.LatLng(), ours.ZoneNumber)
	if err != nil {
		return Deviation{}, fmt.Errorf("reference conversion of %+v failed: %w", g, err)
	}
	if ref.Zone != ours.ZoneNumber {
		return Deviation{}, fmt.Errorf("reference put %+v in zone %d, expected %d", g, ref.Zone, ours.ZoneNumber)
	}
	if (ref.Hemisphere == coordconv.HemisphereNorth) != (g.Latitude >= 0) {
		return Deviation{}, fmt.Errorf("reference hemisphere disagrees for %+v", g)
	}

	back, err := utm.Inverse(ours)
	if err != nil {
		return Deviation{}, err
	}
	dLon := math.Abs(math.Remainder(back.Longitude-g.Longitude, 360))

	return Deviation{
		Point:     g,
		Easting:   math.Abs(ours.Easting - ref.Easting),
		Northing:  math.Abs(ours.Northing - ref.Northing),
		RoundTrip: math.Max(math.Abs(back.Latitude-g.Latitude), dLon),
	}, nil
}

// Inverse converts u with the reference implementation
func Inverse(u models.UtmCoordinate) (models.GeodeticCoordinate, error) {
	hemi := coordconv.HemisphereSouth
	if u.Northern() {
		hemi = coordconv.HemisphereNorth
	}
	ll, err := coordconv.DefaultUTMConverter.ConvertToGeodetic(coordconv.UTMCoord{
		Zone:       u.ZoneNumber,
		Hemisphere: hemi,
		Easting:    u.Easting,
		Northing:   u.Northing,
	})
	if err != nil {
		return models.GeodeticCoordinate{}, fmt.Errorf("reference conversion of %+v failed: %w", u, err)
	}
	return models.GeodeticCoordinate{
		Latitude:  ll.Lat.Degrees(),
		Longitude: ll.Lng.Degrees(),
	}, nil
}

// Sample compares n random points drawn from the projectable band
func Sample(r *rand.Rand, n int) (Report, error) {
	report := Report{Samples: n}
	for i := 0; i < n; i++ {
		g := models.GeodeticCoordinate{
			Latitude:  utm.MinLatitude + r.Float64()*(utm.MaxLatitude-utm.MinLatitude),
			Longitude: r.Float64()*360 - 180,
		}
		d, err := Compare(g)
		if err != nil {
			return report, err
		}
		if d.Easting > report.MaxEasting.Easting {
			report.MaxEasting = d
		}
		if d.Northing > report.MaxNorthing.Northing {
			report.MaxNorthing = d
		}
		if d.RoundTrip > report.MaxRoundTrip.RoundTrip {
			report.MaxRoundTrip = d
		}
	}
	return report, nil
}
