// Package classify decides whether a raw record is a geodetic pair or a UTM
// tuple and builds the matching coordinate.
package classify

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
)

var (
	// ErrMalformedRecord is returned for records with the wrong number or
	// type of fields.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrAmbiguousRecord is returned when a record matches both the geodetic
	// and the UTM shape.
	ErrAmbiguousRecord = errors.New("ambiguous record")
)

// Tokens classifies a positional record such as command line arguments or a
// whitespace separated input line.
//
//	lat lon                    forward
//	easting northing 32U       inverse
//	easting northing 32 U      inverse
func Tokens(tokens []string) (models.Record, error) {
	switch len(tokens) {
	case 2:
		lat, err := parseNumber("latitude", tokens[0])
		if err != nil {
			return models.Record{}, err
		}
		lon, err := parseNumber("longitude", tokens[1])
		if err != nil {
			return models.Record{}, err
		}
		return models.GeodeticRecord(models.GeodeticCoordinate{Latitude: lat, Longitude: lon}, nil), nil

	case 3, 4:
		easting, err := parseNumber("easting", tokens[0])
		if err != nil {
			return models.Record{}, err
		}
		northing, err := parseNumber("northing", tokens[1])
		if err != nil {
			return models.Record{}, err
		}
		zone, letter, err := utm.ParseZone(tokens[2:]...)
		if err != nil {
			return models.Record{}, err
		}
		return models.UtmRecord(models.UtmCoordinate{
			Easting:    easting,
			Northing:   northing,
			ZoneNumber: zone,
			ZoneLetter: letter,
		}, nil), nil

	default:
		return models.Record{}, fmt.Errorf("%w: expected 2 fields (lat lon) or 3-4 fields (easting northing zone [letter]), got %d", ErrMalformedRecord, len(tokens))
	}
}

// Line splits a text line on whitespace and classifies it
func Line(line string) (models.Record, error) {
	return Tokens(strings.Fields(line))
}

func parseNumber(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrMalformedRecord, field, raw)
	}
	return v, nil
}
