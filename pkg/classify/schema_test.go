package classify

import (
	"testing"

	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaGeodetic(t *testing.T) {
	s, err := NewSchema([]string{"id", "Lat", "LONG"})
	require.NoError(t, err)
	assert.Equal(t, models.Forward, s.Direction())
	assert.Equal(t, []string{"Easting", "Northing", "Zone number", "Zone letter"}, s.Columns())

	rec, err := s.Classify([]string{"a1", "-11.350797", "155.3125"})
	require.NoError(t, err)
	assert.Equal(t, models.GeodeticCoordinate{Latitude: -11.350797, Longitude: 155.3125}, rec.Geodetic)
	assert.Equal(t, []models.Field{
		{Name: "id", Value: "a1"},
		{Name: "Lat", Value: "-11.350797"},
		{Name: "LONG", Value: "155.3125"},
	}, rec.Passthrough)
}

func TestSchemaAliases(t *testing.T) {
	for _, header := range [][]string{
		{"lat", "lon"},
		{"latitude", "longitude"},
		{" Latitude ", "Long"},
	} {
		s, err := NewSchema(header)
		require.NoError(t, err, "%q", header)
		assert.Equal(t, models.Forward, s.Direction())
	}

	for _, header := range [][]string{
		{"easting", "northing", "zone number", "zone letter"},
		{"x", "y", "zone"},
		{"Easting", "Northing", "Zone"},
	} {
		s, err := NewSchema(header)
		require.NoError(t, err, "%q", header)
		assert.Equal(t, models.Inverse, s.Direction())
		assert.Equal(t, []string{"Longitude", "Latitude"}, s.Columns())
	}
}

func TestSchemaUTMSplitZone(t *testing.T) {
	s, err := NewSchema([]string{"easting", "northing", "zone number", "zone letter"})
	require.NoError(t, err)

	rec, err := s.Classify([]string{"166021.443", "0.0", "26", "N"})
	require.NoError(t, err)
	assert.Equal(t, models.UtmCoordinate{Easting: 166021.443, Northing: 0, ZoneNumber: 26, ZoneLetter: 'N'}, rec.UTM)
	assert.Equal(t, "0.0", rec.Passthrough[1].Value)
}

func TestSchemaUTMCombinedZone(t *testing.T) {
	s, err := NewSchema([]string{"easting", "northing", "zone"})
	require.NoError(t, err)

	rec, err := s.Classify([]string{"752386.614", "8744229.492", "56L"})
	require.NoError(t, err)
	assert.Equal(t, 56, rec.UTM.ZoneNumber)
	assert.Equal(t, byte('L'), rec.UTM.ZoneLetter)

	_, err = s.Classify([]string{"752386.614", "8744229.492", "56"})
	assert.ErrorIs(t, err, utm.ErrMalformedZone)
}

func TestSchemaZoneConflict(t *testing.T) {
	s, err := NewSchema([]string{"easting", "northing", "zone", "zone letter"})
	require.NoError(t, err)

	rec, err := s.Classify([]string{"752386.614", "8744229.492", "56L", "l"})
	require.NoError(t, err)
	assert.Equal(t, "56L", rec.UTM.Zone())

	_, err = s.Classify([]string{"752386.614", "8744229.492", "56L", "M"})
	assert.ErrorIs(t, err, utm.ErrMalformedZone)
}

func TestSchemaHeaderErrors(t *testing.T) {
	testCases := []struct {
		name   string
		header []string
		want   error
	}{
		{"lat and easting", []string{"lat", "long", "easting", "northing", "zone"}, ErrAmbiguousRecord},
		{"lat and x", []string{"lat", "x"}, ErrAmbiguousRecord},
		{"lon and northing", []string{"lon", "northing"}, ErrAmbiguousRecord},
		{"duplicate latitude", []string{"lat", "latitude", "lon"}, ErrAmbiguousRecord},
		{"no coordinates", []string{"id", "name"}, ErrMalformedRecord},
		{"empty", nil, ErrMalformedRecord},
		{"latitude only", []string{"lat"}, ErrMalformedRecord},
		{"no zone", []string{"easting", "northing"}, ErrMalformedRecord},
		{"only zone letter", []string{"easting", "northing", "zone letter"}, ErrMalformedRecord},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSchema(tc.header)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSchemaRowErrors(t *testing.T) {
	s, err := NewSchema([]string{"lat", "long"})
	require.NoError(t, err)

	_, err = s.Classify([]string{"51"})
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = s.Classify([]string{"51", "10", "extra"})
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = s.Classify([]string{"", "10"})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}
