package crosscheck

import (
	"math/rand"
	"testing"

	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareKnownPoints(t *testing.T) {
	points := []models.GeodeticCoordinate{
		{Latitude: 51, Longitude: 10},
		{Latitude: -11.35, Longitude: 155.31},
		{Latitude: 0, Longitude: 0},
		{Latitude: 60.5, Longitude: 5.3}, // inside the Norway exception, zone 31 forced
		{Latitude: 83.9, Longitude: 179.9},
		{Latitude: -79.9, Longitude: -179.9},
	}

	for _, p := range points {
		d, err := Compare(p)
		require.NoError(t, err, "%+v", p)
		assert.LessOrEqual(t, d.Easting, 0.01, "easting at %+v", p)
		assert.LessOrEqual(t, d.Northing, 0.01, "northing at %+v", p)
		assert.LessOrEqual(t, d.RoundTrip, 1e-6, "round trip at %+v", p)
	}
}

func TestCompareOutOfRange(t *testing.T) {
	_, err := Compare(models.GeodeticCoordinate{Latitude: 85, Longitude: 0})
	assert.ErrorIs(t, err, utm.ErrOutOfRange)
}

func TestInverseMatchesEngine(t *testing.T) {
	u := models.UtmCoordinate{Easting: 570168.862, Northing: 5650300.787, ZoneNumber: 32, ZoneLetter: 'U'}

	ref, err := Inverse(u)
	require.NoError(t, err)
	ours, err := utm.Inverse(u)
	require.NoError(t, err)

	assert.InDelta(t, ours.Latitude, ref.Latitude, 1e-7)
	assert.InDelta(t, ours.Longitude, ref.Longitude, 1e-7)
}

func TestInverseSouthern(t *testing.T) {
	ref, err := Inverse(models.UtmCoordinate{Easting: 752386.614, Northing: 8744229.492, ZoneNumber: 56, ZoneLetter: 'L'})
	require.NoError(t, err)

	assert.InDelta(t, -11.350797, ref.Latitude, 1e-6)
	assert.InDelta(t, 155.3125, ref.Longitude, 1e-6)
}

func TestSample(t *testing.T) {
	report, err := Sample(rand.New(rand.NewSource(42)), 500)
	require.NoError(t, err)

	assert.Equal(t, 500, report.Samples)
	assert.True(t, report.Within(0.05, 1e-6), "report %+v", report)
	assert.False(t, report.Within(-1, -1))
}
